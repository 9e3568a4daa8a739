package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/api/errors"
	"github.com/jordanlanch/brokerhub/pkg/export"
	"github.com/jordanlanch/brokerhub/pkg/metrics"
)

// ExportHandler streams lead exports
type ExportHandler struct {
	exports *export.Service
	metrics *metrics.Metrics
}

// NewExportHandler creates a new export handler
func NewExportHandler(es *export.Service, m *metrics.Metrics) *ExportHandler {
	return &ExportHandler{exports: es, metrics: m}
}

func exportFilter(c echo.Context) export.Filter {
	return export.Filter{
		Status:     c.QueryParam("status"),
		AssignedTo: c.QueryParam("assignedTo"),
	}
}

func attachmentName(extension string) string {
	return fmt.Sprintf("leads-%s.%s", time.Now().Format("20060102-150405"), extension)
}

// LeadsCSV streams the filtered leads as a CSV download
func (h *ExportHandler) LeadsCSV(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, "attachment; filename="+attachmentName("csv"))
	res.WriteHeader(http.StatusOK)

	if _, err := h.exports.WriteCSV(c.Request().Context(), res, exportFilter(c)); err != nil {
		return errors.Respond(c, err)
	}

	h.metrics.RecordExportCreated("csv")
	return nil
}

// LeadsExcel streams the filtered leads as an Excel download
func (h *ExportHandler) LeadsExcel(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	res.Header().Set(echo.HeaderContentDisposition, "attachment; filename="+attachmentName("xlsx"))
	res.WriteHeader(http.StatusOK)

	if _, err := h.exports.WriteExcel(c.Request().Context(), res, exportFilter(c)); err != nil {
		return errors.Respond(c, err)
	}

	h.metrics.RecordExportCreated("excel")
	return nil
}
