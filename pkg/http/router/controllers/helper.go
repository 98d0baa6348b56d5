package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lintang-b-s/navigatorx-turncost/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]any

func (api *turnCostAPI) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (api *turnCostAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	if err := api.writeJSON(w, status, envelope{"error": message}, nil); err != nil {
		api.log.Error("write error response", zap.String("url", r.URL.String()), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *turnCostAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("server error", zap.String("method", r.Method), zap.String("url", r.URL.String()), zap.Error(err))
	api.errorResponse(w, r, http.StatusInternalServerError, util.MessageInternalServerError)
}

func (api *turnCostAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// getStatusCode writes the error with the status mapped from its util.Error code.
func (api *turnCostAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	status := getStatusCode(err)
	if status == http.StatusInternalServerError {
		api.ServerErrorResponse(w, r, err)
		return
	}
	api.errorResponse(w, r, status, err.Error())
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *util.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	}
	switch ierr.Code() {
	case util.ErrNotFound:
		return http.StatusNotFound
	case util.ErrConflict:
		return http.StatusConflict
	case util.ErrBadParamInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIndexParam parses an integer query parameter, def if it is empty.
func parseIndexParam(value string, def int64) (int64, error) {
	if value == "" {
		return def, nil
	}
	return strconv.ParseInt(value, 10, 64)
}
