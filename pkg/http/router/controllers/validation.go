package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/MOTRoundTables/google-control-sub000/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type validationAPI struct {
	validationService ValidationService
	log               *zap.Logger
}

func New(validationService ValidationService, log *zap.Logger) *validationAPI {
	return &validationAPI{
		validationService: validationService,
		log:               log,
	}
}

func (api *validationAPI) Routes(group *helper.RouteGroup) {
	group.POST("/validate", api.validate)
}

func (api *validationAPI) validate(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request validateRequest

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&request); err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("malformed request body: %w", err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	observations, err := request.toObservations()
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	completeness, err := request.toCompleteness()
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	validated, rep, err := api.validationService.ValidateObservations(observations, completeness)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewValidateResponse(validated, rep)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
