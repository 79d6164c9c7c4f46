// seed_catalog genera el script SQL para poblar la tabla materials a partir de un CSV
// exportado del ERP (separador ',' o ';', UTF-8 o ISO-8859-1).
//
// Columnas: id, name, description, unit_cost, stock_quantity, reorder_point, lead_time_days
// La primera fila se descarta si es encabezado.
//
// Uso: go run ./cmd/seed_catalog [-latin1] materiales.csv [salida.sql]
// Sin salida escribe en stdout.
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type materialRow struct {
	id, name, description string
	unitCost              decimal.Decimal
	stock, reorder        int64
	leadTime              int
}

func main() {
	latin1 := flag.Bool("latin1", false, "forzar lectura ISO-8859-1")
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog [-latin1] materiales.csv [salida.sql]")
		os.Exit(2)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if flag.NArg() > 1 {
		f, err := os.Create(flag.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	n, err := convert(bytes.NewReader(raw), w, *latin1 || !utf8.Valid(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Convertir: %v\n", err)
		os.Exit(1)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d materiales\n", n)
}

// convert lee el CSV y escribe un INSERT ... ON CONFLICT por material. Devuelve cuántos escribió.
func convert(r io.Reader, w io.Writer, latin1 bool) (int, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	br := bufio.NewReader(r)
	first, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, err
	}
	cr := csv.NewReader(br)
	cr.Comma = detectComma(first)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return 0, err
	}

	fmt.Fprintln(w, "-- Materiales generados por seed_catalog")
	n := 0
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		m, err := parseRow(rec)
		if err != nil {
			return n, fmt.Errorf("fila %d: %w", i+1, err)
		}
		fmt.Fprintf(w, "INSERT INTO materials (id, name, description, unit_cost, stock_quantity, reorder_point, lead_time_days)\n")
		fmt.Fprintf(w, "VALUES ('%s', '%s', '%s', %s, %d, %d, %d)\n",
			escapeSQL(m.id), escapeSQL(m.name), escapeSQL(m.description), m.unitCost.String(), m.stock, m.reorder, m.leadTime)
		fmt.Fprintln(w, "ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,")
		fmt.Fprintln(w, "  unit_cost = EXCLUDED.unit_cost, reorder_point = EXCLUDED.reorder_point, lead_time_days = EXCLUDED.lead_time_days;")
		n++
	}
	return n, nil
}

func detectComma(sample []byte) rune {
	line := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		line = sample[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "id")
}

func parseRow(rec []string) (materialRow, error) {
	var m materialRow
	if len(rec) < 7 {
		return m, fmt.Errorf("se esperaban 7 columnas, hay %d", len(rec))
	}
	m.id = strings.TrimSpace(rec[0])
	m.name = strings.TrimSpace(rec[1])
	m.description = strings.TrimSpace(rec[2])
	if m.id == "" || m.name == "" {
		return m, errors.New("id y name son obligatorios")
	}
	cost, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", "."))
	if err != nil {
		return m, fmt.Errorf("unit_cost: %w", err)
	}
	if cost.IsNegative() {
		return m, errors.New("unit_cost negativo")
	}
	m.unitCost = cost
	if m.stock, err = strconv.ParseInt(strings.TrimSpace(rec[4]), 10, 64); err != nil || m.stock < 0 {
		return m, fmt.Errorf("stock_quantity inválido: %q", rec[4])
	}
	if m.reorder, err = strconv.ParseInt(strings.TrimSpace(rec[5]), 10, 64); err != nil || m.reorder < 0 {
		return m, fmt.Errorf("reorder_point inválido: %q", rec[5])
	}
	if m.leadTime, err = strconv.Atoi(strings.TrimSpace(rec[6])); err != nil || m.leadTime < 0 {
		return m, fmt.Errorf("lead_time_days inválido: %q", rec[6])
	}
	return m, nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
