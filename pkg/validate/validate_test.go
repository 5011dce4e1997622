package validate_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sellerhub/pkg/validate"
)

type signupInput struct {
	Name                 string `json:"name"                  validate:"required,alpha_dash,min=2,max=50"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
	Age                  int    `json:"age"                   validate:"required,gte=18,lte=120"`
	Role                 string `json:"role"                  validate:"required,oneof=admin user moderator"`
	Website              string `json:"website"               validate:"omitempty,url"`
}

func validSignup() signupInput {
	return signupInput{
		Name:                 "john_doe",
		Email:                "john@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
		Age:                  25,
		Role:                 "user",
	}
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(validSignup())
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
	assert.Nil(t, errs)
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(signupInput{})
	require.True(t, validate.HasErrors(errs))
	assert.Equal(t, []string{"The name field is required."}, errs["name"])
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "role")
	assert.NotContains(t, errs, "website")
}

func TestMessages(t *testing.T) {
	in := validSignup()
	in.Email = "not-an-email"
	in.Age = 15
	in.Role = "root"
	in.Name = "x"
	in.PasswordConfirmation = "other"

	errs := validate.Struct(in)
	assert.Equal(t, []string{"The email must be a valid email address."}, errs["email"])
	assert.Equal(t, []string{"The age must be greater than or equal to 18."}, errs["age"])
	assert.Equal(t, []string{"The selected role is invalid."}, errs["role"])
	assert.Equal(t, []string{"The name must be at least 2 characters."}, errs["name"])
	assert.Equal(t, []string{"The password confirmation does not match."}, errs["password_confirmation"])
}

func TestAlphaDash(t *testing.T) {
	in := validSignup()
	in.Name = "john doe!"
	errs := validate.Struct(in)
	assert.Equal(t,
		[]string{"The name field may only contain letters, numbers, dashes, and underscores."},
		errs["name"])
}

type item struct {
	SKU   string          `json:"sku"   validate:"required,max=8"`
	Price decimal.Decimal `json:"price" validate:"required,gt=0"`
}

type order struct {
	Title string `json:"title" validate:"required"`
	Items []item `json:"items" validate:"required,min=1,dive"`
	Meta  struct {
		Channel string `json:"channel" validate:"required"`
	} `json:"meta"`
}

func TestNestedPathsAreDotJoined(t *testing.T) {
	errs := validate.Struct(&order{
		Title: "t",
		Items: []item{
			{SKU: "ok", Price: decimal.NewFromInt(1)},
			{SKU: "", Price: decimal.NewFromFloat(-2.5)},
		},
	})

	assert.Equal(t, []string{"items.1.price", "items.1.sku", "meta.channel"}, errs.Fields())
	assert.Equal(t, []string{"The price must be greater than 0."}, errs["items.1.price"])
}

func TestEmptySliceUsesItemMessage(t *testing.T) {
	errs := validate.Struct(&order{Title: "t", Items: []item{}, Meta: struct {
		Channel string `json:"channel" validate:"required"`
	}{Channel: "web"}})
	assert.Equal(t, []string{"The items must have at least 1 items."}, errs["items"])
}

func TestPath(t *testing.T) {
	assert.Equal(t, "items.0.sku", validate.Path("createProductRequest.items[0].sku"))
	assert.Equal(t, "name", validate.Path("Input.name"))
	assert.Equal(t, "tags.2", validate.Path("Input.tags[2]"))
}

func TestRegisterRule(t *testing.T) {
	require.NoError(t, validate.RegisterRule("even", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	}, "The %[1]s must be even."))

	type in struct {
		N int `json:"n" validate:"even"`
	}
	errs := validate.Struct(in{N: 3})
	assert.Equal(t, []string{"The n must be even."}, errs["n"])
	assert.Nil(t, validate.Struct(in{N: 4}))
}

func TestErrorsAsError(t *testing.T) {
	errs := validate.Errors{}
	errs.Add("b", "second")
	errs.Add("a", "first")
	assert.Equal(t, "validation failed: a: first; b: second", errs.Error())
}

func TestNonStructIsIgnored(t *testing.T) {
	assert.Nil(t, validate.Struct("plain string"))
}
