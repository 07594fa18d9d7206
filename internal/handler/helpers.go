package handler

import (
	"errors"
	"net/http"
	"reflect"

	"bclick/internal/apierror"
	"bclick/internal/middleware"
	"bclick/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("invalid_json", "invalid JSON body: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("invalid_query", "invalid query: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusUnprocessableEntity, apierror.WithCode("validation_failed", err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// pathID parses the :id route parameter, writing a 400 when malformed.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode(string(service.KindInvalidInput), "invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// statusFor maps business error kinds to HTTP status codes.
func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindInvalidInput,
		service.KindInvalidQuantity,
		service.KindEmptyCart,
		service.KindItemNotInCart,
		service.KindProductSupplierMismatch,
		service.KindNoteRequired,
		service.KindInvalidTransition:
		return http.StatusBadRequest
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInsufficientStock,
		service.KindStockShortage,
		service.KindProductUnavailable,
		service.KindOrderIsFinal,
		service.KindPriceChanged,
		service.KindConcurrentUpdate,
		service.KindCategoryNotEmpty,
		service.KindDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the envelope for err. Unexpected errors are logged and
// hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	var de *service.DomainError
	if !errors.As(err, &de) {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, apierror.WithCode("internal_error", "internal server error"))
		return
	}

	status := statusFor(de.Kind)
	code := string(de.Kind)
	switch de.Kind {
	case service.KindInsufficientStock, service.KindStockShortage:
		body := apierror.StockError{Detail: de.Message, Code: code, Available: de.Available}
		for _, s := range de.Shortages {
			body.Shortages = append(body.Shortages, apierror.ShortageItem{
				ProductID: s.ProductID.String(),
				Requested: s.Requested,
				Available: s.Available,
			})
		}
		c.JSON(status, body)
	case service.KindPriceChanged:
		body := apierror.PriceChangedError{Detail: de.Message, Code: code}
		if de.Total != nil {
			body.Total = de.Total.StringFixed(2)
		}
		if de.Tax != nil {
			body.Tax = de.Tax.StringFixed(2)
		}
		c.JSON(status, body)
	default:
		c.JSON(status, apierror.WithCode(code, de.Message))
	}
}
