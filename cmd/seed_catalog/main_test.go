package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_UTF8ConEncabezado(t *testing.T) {
	in := "id,name,description,unit_cost,stock_quantity,reorder_point,lead_time_days\n" +
		"M1,Acero,Lámina 2mm,10.50,100,20,5\n" +
		"M2,Pintura,O'Brien gris,3,0,4,2\n"
	var out bytes.Buffer

	n, err := convert(strings.NewReader(in), &out, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	sql := out.String()
	assert.Contains(t, sql, "VALUES ('M1', 'Acero', 'Lámina 2mm', 10.5, 100, 20, 5)")
	assert.Contains(t, sql, "'O''Brien gris'")
	assert.Equal(t, 2, strings.Count(sql, "ON CONFLICT (id)"))
}

func TestConvert_Latin1PuntoYComa(t *testing.T) {
	// "Lámina" en ISO-8859-1: á = 0xE1
	in := []byte("M1;L\xe1mina;;10,25;1;2;3\n")
	var out bytes.Buffer

	n, err := convert(bytes.NewReader(in), &out, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, out.String(), "'Lámina'")
	assert.Contains(t, out.String(), "10.25")
}

func TestConvert_FilaInvalida(t *testing.T) {
	var out bytes.Buffer
	_, err := convert(strings.NewReader("M1,Acero,,abc,1,1,1\n"), &out, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fila 1")

	_, err = convert(strings.NewReader("M1,Acero,,1,-4,1,1\n"), &out, false)
	assert.Error(t, err)
}
