package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
)

type PatientService interface {
	Create(ctx context.Context, cmd *patient.CreateRecordCommand) (int64, error)
	List(ctx context.Context) ([]*patient.Record, error)
	Get(ctx context.Context, id int64) (*patient.Record, error)
	Update(ctx context.Context, id int64, cmd *patient.UpdateRecordCommand) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type PatientRequest struct {
	Name             string  `json:"name" binding:"required"`
	NationalID       string  `json:"nationalId" binding:"required"`
	Temperature      float64 `json:"temperature"`
	FrequentSickness string  `json:"frequentSickness"`
}

type PatientResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	NationalID       string    `json:"nationalId"`
	Temperature      float64   `json:"temperature"`
	FrequentSickness string    `json:"frequentSickness"`
	RecordedAt       time.Time `json:"recordedAt"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type ChangesResponse struct {
	Changes int64 `json:"changes"`
}

type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

func toResponse(r *patient.Record) *PatientResponse {
	return &PatientResponse{
		ID:               r.ID,
		Name:             r.Name,
		NationalID:       r.NationalID,
		Temperature:      r.Temperature,
		FrequentSickness: r.FrequentSickness,
		RecordedAt:       r.RecordedAt,
	}
}

type PatientHandler struct {
	svc PatientService
}

func NewPatientHandler(svc PatientService) *PatientHandler {
	return &PatientHandler{svc: svc}
}

func (h *PatientHandler) Register(rg *gin.RouterGroup) {
	data := rg.Group("/data")
	data.POST("", h.Create)
	data.GET("", h.List)
	data.DELETE("", h.DeleteAll)
	data.GET("/:id", h.Get)
	data.PUT("/:id", h.Update)
	data.DELETE("/:id", h.Delete)
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req PatientRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.svc.Create(c.Request.Context(), &patient.CreateRecordCommand{
		Name:             req.Name,
		NationalID:       req.NationalID,
		Temperature:      req.Temperature,
		FrequentSickness: req.FrequentSickness,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreatedResponse{ID: id})
}

func (h *PatientHandler) List(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]*PatientResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, toResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

// Get answers 200 with a JSON null body when the record does not exist.
func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, toResponse(rec))
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req PatientRequest
	if !bindJSON(c, &req) {
		return
	}

	changes, err := h.svc.Update(c.Request.Context(), id, &patient.UpdateRecordCommand{
		Name:             req.Name,
		NationalID:       req.NationalID,
		Temperature:      req.Temperature,
		FrequentSickness: req.FrequentSickness,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ChangesResponse{Changes: changes})
}

func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeletedResponse{Deleted: deleted})
}

func (h *PatientHandler) DeleteAll(c *gin.Context) {
	deleted, err := h.svc.DeleteAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeletedResponse{Deleted: deleted})
}
