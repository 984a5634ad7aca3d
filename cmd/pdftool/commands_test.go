package main

import (
	"errors"
	"testing"

	pdfPkg "pdf_toolkit/pdf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func materialize(t *testing.T, order *pdfPkg.PageOrder) []int {
	t.Helper()
	pages, err := order.Materialize()
	require.NoError(t, err)
	return pages
}

func TestBuildOrder(t *testing.T) {
	order, err := buildOrder(4, "3,1", false, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, materialize(t, order))

	order, err = buildOrder(3, "", true, []string{"1:90", "3:-90"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, materialize(t, order))
	assert.Equal(t, 90, order.Rotation(0))
	assert.Equal(t, 270, order.Rotation(2))

	order, err = buildOrder(5, " 5 , 4 ,3,2,1", false, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2, 1, 0}, materialize(t, order))
}

func TestBuildOrderErrors(t *testing.T) {
	var pe *pdfPkg.ParseError

	_, err := buildOrder(3, "1,1", false, nil)
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "page listed twice")

	_, err = buildOrder(3, "4", false, nil)
	require.True(t, errors.As(err, &pe))

	_, err = buildOrder(3, "1,x", false, nil)
	require.True(t, errors.As(err, &pe))

	_, err = buildOrder(3, "", false, []string{"2"})
	assert.Error(t, err)

	_, err = buildOrder(3, "", false, []string{"2:45"})
	var ve *pdfPkg.ValidationError
	require.True(t, errors.As(err, &ve))
}
