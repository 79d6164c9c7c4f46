package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Details detalle estructurado (faltantes de stock, recursos en conflicto, pasos pendientes).
	Details interface{} `json:"details,omitempty"`
}

// DateRange rango de fechas opcional en query (YYYY-MM-DD).
type DateRange struct {
	From string `query:"from"`
	To   string `query:"to"`
}
