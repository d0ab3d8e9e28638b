package server

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"yashubustudio/claimrisk/claimrisk"
)

var predictValidate = newValidator()

// PredictRequest is the body of POST /v1/predict. Every field is required.
type PredictRequest struct {
	Tenure      *float64 `json:"tenure" validate:"required"`
	VehicleAge  *float64 `json:"vehicleAge" validate:"required"`
	HolderAge   *float64 `json:"holderAge" validate:"required"`
	AreaCluster *string  `json:"areaCluster" validate:"required"`
	FuelType    *string  `json:"fuelType" validate:"required"`
}

// Validate checks that every field is present.
func (r *PredictRequest) Validate() error {
	return predictValidate.Struct(r)
}

// Submission converts the request into a form submission.
func (r PredictRequest) Submission() claimrisk.Submission {
	return claimrisk.Submission{
		Tenure:      r.Tenure,
		VehicleAge:  r.VehicleAge,
		HolderAge:   r.HolderAge,
		AreaCluster: r.AreaCluster,
		FuelType:    r.FuelType,
	}
}

// PredictResponse carries the raw result and its rendered view.
type PredictResponse struct {
	Result claimrisk.Result `json:"result"`
	View   claimrisk.View   `json:"view"`
}

// ErrorResponse is returned for every non-2xx status.
type ErrorResponse struct {
	Error  string          `json:"error"`
	Code   string          `json:"code"`
	Fields []string        `json:"fields,omitempty"`
	State  string          `json:"state,omitempty"`
	View   *claimrisk.View `json:"view,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"model":  s.svc.ModelID(),
	})
}

func (s *Server) handleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Options())
}

func (s *Server) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Summary())
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Stats())
}

func (s *Server) handleDocs(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.JSON(http.StatusOK, gin.H{"markdown": s.svc.Docs()})
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(s.svc.Docs()))
}

func (s *Server) handlePredict(c *gin.Context) {
	requestID := c.GetString(requestIDKey)

	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logWarn("Invalid request body", "request_id", requestID, "error", err)
		s.metrics.ObserveRejected()
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if err := req.Validate(); err != nil {
		s.metrics.ObserveRejected()
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "Missing required fields",
			Code:   "MISSING_FIELDS",
			Fields: missingFields(err),
		})
		return
	}

	res, err := s.svc.Predict(c.Request.Context(), req.Submission())
	if err != nil {
		switch {
		case errors.Is(err, claimrisk.ErrInvalidSubmission):
			s.metrics.ObserveRejected()
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_SUBMISSION",
			})
		default:
			view := claimrisk.PresentError(err)
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error: err.Error(),
				Code:  "SCORING_FAILED",
				State: string(claimrisk.StateError),
				View:  &view,
			})
		}
		return
	}
	c.JSON(http.StatusOK, PredictResponse{Result: res, View: claimrisk.Present(res)})
}

// missingFields lists the JSON names of the fields that failed validation.
func missingFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
