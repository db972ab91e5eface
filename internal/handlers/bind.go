package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/team-task-api/internal/constants"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
)

func init() {
	// Report validation failures under the JSON field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	}
}

// bindJSON binds the request body and writes a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := apierrors.FieldErrors{}
		for _, fe := range verrs {
			fields.Add(fe.Field(), validationMessage(fe))
		}
		apierrors.ValidationFailed(c, fields)
		return false
	}

	apierrors.BadRequest(c, "Invalid request body")
	return false
}

// bindRawJSON decodes the body into top-level fields so handlers can tell
// absent fields from explicit nulls. An empty body is an empty object.
func bindRawJSON(c *gin.Context) (map[string]json.RawMessage, bool) {
	raw := map[string]json.RawMessage{}
	if err := c.ShouldBindJSON(&raw); err != nil && !errors.Is(err, io.EOF) {
		apierrors.BadRequest(c, "Invalid request body")
		return nil, false
	}
	return raw, true
}

// respondFieldErrors writes a 400 when err carries field errors.
func respondFieldErrors(c *gin.Context, err error) bool {
	var fields apierrors.FieldErrors
	if errors.As(err, &fields) {
		apierrors.ValidationFailed(c, fields)
		return true
	}
	return false
}

// respondInternal records err for the request log and writes a 500.
func respondInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	apierrors.InternalError(c, "")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fe.Value())
	default:
		return "Invalid value."
	}
}

const msgDateFormat = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."

var errDateFormat = errors.New("invalid date format")

// parseDate parses a YYYY-MM-DD date. Nil or empty input yields nil.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(constants.DateLayout, *s)
	if err != nil {
		return nil, errDateFormat
	}
	return &t, nil
}
