package handlers

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jordanlanch/brokerhub/pkg/export"
	"github.com/jordanlanch/brokerhub/pkg/logger"
)

func setupExportHandler(t *testing.T) *ExportHandler {
	t.Helper()

	st := setupStore(t)
	return NewExportHandler(export.NewService(st, logger.Default()), testMetrics())
}

func TestExportHandler_LeadsCSV(t *testing.T) {
	h := setupExportHandler(t)
	e := echo.New()

	c, rec := newContext(t, e, http.MethodGet, "/api/exports/leads/csv", nil)
	require.NoError(t, h.LeadsCSV(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment; filename=leads-")

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6) // header + 5 seeded leads
	assert.Equal(t, "Name", records[0][1])
}

func TestExportHandler_LeadsCSVFiltered(t *testing.T) {
	h := setupExportHandler(t)
	e := echo.New()

	c, rec := newContext(t, e, http.MethodGet, "/api/exports/leads/csv?status=booked", nil)
	require.NoError(t, h.LeadsCSV(c))
	require.Equal(t, http.StatusOK, rec.Code)

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Luis Rodríguez", records[1][1])
}

func TestExportHandler_LeadsExcel(t *testing.T) {
	h := setupExportHandler(t)
	e := echo.New()

	c, rec := newContext(t, e, http.MethodGet, "/api/exports/leads/xlsx", nil)
	require.NoError(t, h.LeadsExcel(c))
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "Leads")
	assert.Contains(t, f.GetSheetList(), "Resumen")
}
