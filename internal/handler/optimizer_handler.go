package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/planwise/planwise-api/internal/dto"
	appErrors "github.com/planwise/planwise-api/pkg/errors"
	"github.com/planwise/planwise-api/pkg/export"
	"github.com/planwise/planwise-api/pkg/response"
)

type optimizerService interface {
	GeneratePlan(ctx context.Context, ownerID int64, req dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error)
}

// OptimizerHandler exposes plan generation and export endpoints.
type OptimizerHandler struct {
	service optimizerService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewOptimizerHandler constructs the handler.
func NewOptimizerHandler(service optimizerService) *OptimizerHandler {
	return &OptimizerHandler{
		service: service,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// Generate godoc
// @Summary Generate an optimized plan
// @Description Places the candidate activities inside the window around
// @Description existing activities and availability rules. With apply=true the
// @Description resulting plan is persisted.
// @Tags Optimizer
// @Accept json
// @Produce json
// @Param payload body dto.GeneratePlanRequest true "Planning window and candidates"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /plan/generate [post]
func (h *OptimizerHandler) Generate(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	plan, err := h.service.GeneratePlan(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Apply godoc
// @Summary Generate and persist an optimized plan
// @Description Same as generate but always commits the resulting plan:
// @Description activities with a positive id are updated, the rest created.
// @Tags Optimizer
// @Accept json
// @Produce json
// @Param payload body dto.GeneratePlanRequest true "Planning window and candidates"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /plan/apply [post]
func (h *OptimizerHandler) Apply(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	req.Apply = true

	plan, err := h.service.GeneratePlan(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Export godoc
// @Summary Export an optimized plan
// @Description Generates a plan for the window and streams it as a CSV or PDF
// @Description download. Nothing is persisted.
// @Tags Optimizer
// @Accept json
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param payload body dto.GeneratePlanRequest true "Planning window and candidates"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /plan/export [post]
func (h *OptimizerHandler) Export(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "pdf" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	var req dto.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	// Export never commits the plan, whatever the payload says.
	req.Apply = false

	plan, err := h.service.GeneratePlan(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	dataset := planDataset(plan)
	filename := fmt.Sprintf("plan-%s.%s", uuid.NewString(), format)

	var body []byte
	contentType := "text/csv"
	if format == "pdf" {
		contentType = "application/pdf"
		title := fmt.Sprintf("Plan %s - %s", plan.WindowStart.Format("02/01/2006"), plan.WindowEnd.Format("02/01/2006"))
		body, err = h.pdf.Render(dataset, title)
	} else {
		body, err = h.csv.Render(dataset)
	}
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render plan export"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, contentType, body)
}

func planDataset(plan *dto.GeneratePlanResponse) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Title", "Start", "End", "Priority", "Status"},
	}
	for _, activity := range plan.Activities {
		row := map[string]string{
			"Title":    activity.Title,
			"Priority": string(activity.Priority),
			"Status":   string(activity.Status),
		}
		if activity.Start != nil {
			row["Start"] = activity.Start.Format("02/01/2006 15:04")
		}
		if activity.End != nil {
			row["End"] = activity.End.Format("02/01/2006 15:04")
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset
}
