package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageQuery struct {
	Sort  string `query:"sort" default:"symbol" validate:"oneof=symbol long_pct"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Tag   string `query:"tag" validate:"omitempty,even_length"`
}

func init() {
	RegisterValidation("even_length", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String())%2 == 0
	}, "must have an even length")
}

func bindQuery(t *testing.T, target string, req interface{}) interface{} {
	t.Helper()
	e := echo.New()
	r := httptest.NewRequest(http.MethodGet, target, nil)
	return ReadAndValidateRequest(e.NewContext(r, httptest.NewRecorder()), req)
}

func TestReadAndValidateRequestDefaults(t *testing.T) {
	q := &pageQuery{}
	assert.Nil(t, bindQuery(t, "/x", q))
	assert.Equal(t, "symbol", q.Sort)
}

func TestReadAndValidateRequestReportsWireNames(t *testing.T) {
	verr := bindQuery(t, "/x?sort=volume&limit=500", &pageQuery{})
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 2)

	assert.Equal(t, "ERR_ONEOF", errs[0].Code)
	assert.Equal(t, "sort", errs[0].Field)
	assert.Equal(t, "sort must be one of: symbol, long_pct", errs[0].Message)
	assert.Equal(t, []string{"symbol", "long_pct"}, errs[0].Params["options"])

	assert.Equal(t, "ERR_MAX", errs[1].Code)
	assert.Equal(t, "limit must be at most 100", errs[1].Message)
}

func TestRegisteredValidationMessage(t *testing.T) {
	errs := ValidateStruct(&pageQuery{Sort: "symbol", Tag: "abc"}).([]ValidationError)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_EVEN_LENGTH", errs[0].Code)
	assert.Equal(t, "tag must have an even length", errs[0].Message)
}

func TestBindErrorIsUnknown(t *testing.T) {
	errs := bindQuery(t, "/x?limit=lots", &pageQuery{}).([]ValidationError)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_UNKNOWN", errs[0].Code)
}
