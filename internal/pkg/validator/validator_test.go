package validator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewInput struct {
	VanListingID string `json:"vanListingId" binding:"required" validate:"required"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5" validate:"required,min=1,max=5"`
	Comment      string `json:"comment" validate:"max=10"`
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	details := Validate(reviewInput{Rating: 9, Comment: strings.Repeat("x", 11)})
	require.Len(t, details, 3)

	byField := map[string]FieldError{}
	for _, d := range details {
		byField[d.Field] = d
	}
	assert.Equal(t, "required", byField["vanListingId"].Tag)
	assert.Equal(t, "max", byField["rating"].Tag)
	assert.Equal(t, "must be at most 5", byField["rating"].Message)
	assert.Equal(t, "must be at most 10 characters", byField["comment"].Message)
}

func TestValidate_OK(t *testing.T) {
	assert.Nil(t, Validate(reviewInput{VanListingID: "1", Rating: 4}))
}

func TestDetails_GinBindingEngine(t *testing.T) {
	err := binding.Validator.ValidateStruct(&reviewInput{VanListingID: "1", Rating: 0})
	require.Error(t, err)

	details := Details(err)
	require.Len(t, details, 1)
	assert.Equal(t, "rating", details[0].Field)
	assert.Equal(t, "required", details[0].Tag)
}

func TestDetails_TypeMismatch(t *testing.T) {
	var in reviewInput
	err := json.Unmarshal([]byte(`{"rating":"five"}`), &in)
	require.Error(t, err)

	details := Details(err)
	require.Len(t, details, 1)
	assert.Equal(t, "rating", details[0].Field)
	assert.Equal(t, "type", details[0].Tag)
}

func TestDetails_Malformed(t *testing.T) {
	var in reviewInput
	err := json.Unmarshal([]byte(`{"rating":`), &in)
	require.Error(t, err)

	details := Details(err)
	require.Len(t, details, 1)
	assert.Equal(t, "body", details[0].Field)
}

type passwordInput struct {
	Password string `json:"password" binding:"required,max=72,maxbytes=72" validate:"required,max=72,maxbytes=72"`
}

func TestValidate_MaxBytes(t *testing.T) {
	// 40 runes, 80 bytes
	details := Validate(passwordInput{Password: strings.Repeat("é", 40)})
	require.Len(t, details, 1)
	assert.Equal(t, "password", details[0].Field)
	assert.Equal(t, "maxbytes", details[0].Tag)
	assert.Equal(t, "must be at most 72 bytes", details[0].Message)

	assert.Nil(t, Validate(passwordInput{Password: strings.Repeat("é", 36)}))
}

func TestDetails_GinBindingEngineMaxBytes(t *testing.T) {
	err := binding.Validator.ValidateStruct(&passwordInput{Password: strings.Repeat("é", 40)})
	require.Error(t, err)
	details := Details(err)
	require.Len(t, details, 1)
	assert.Equal(t, "maxbytes", details[0].Tag)
}
