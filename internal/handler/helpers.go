package handler

import (
	"errors"
	"net/http"

	"github.com/Gabstaudt/churrascaria-api/internal/apierror"
	"github.com/Gabstaudt/churrascaria-api/internal/repository"
	"github.com/Gabstaudt/churrascaria-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeServiceError maps the service/store error taxonomy to HTTP statuses.
// Credential failures stay uniform; validation failures name the field.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCredenciaisInvalidas):
		c.JSON(http.StatusUnauthorized, apierror.New("Credenciais invalidas"))
	case errors.Is(err, repository.ErrNaoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New("Usuario nao encontrado"))
	case errors.Is(err, repository.ErrUsernameEmUso),
		errors.Is(err, repository.ErrEmailEmUso),
		errors.Is(err, repository.ErrCodigoEmUso):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		// ErrorHandler middleware logs it and answers with a generic 500
		_ = c.Error(err)
	}
}
