package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `form:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Age      *int   `form:"age" binding:"omitempty,min=0"`
}

func TestToDetailsUsesTagNames(t *testing.T) {
	Init()
	age := -1
	err := binding.Validator.ValidateStruct(&signup{Username: "a b", Email: "nope", Age: &age})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be 1-64 characters without spaces or slashes", details["username"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be greater than or equal to 0", details["age"])
}

func TestToDetailsRequired(t *testing.T) {
	Init()
	err := binding.Validator.ValidateStruct(&signup{})
	require.Error(t, err)
	details := ToDetails(err)
	assert.Equal(t, "is required", details["username"])
	assert.Equal(t, "is required", details["email"])
	assert.NotContains(t, details, "age")
}

func TestToDetailsNil(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
}
