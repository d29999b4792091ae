package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/middleware"
)

var validate = validator.New()

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation. On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apperrors.Write(w, apperrors.Validation("invalid request body"))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		fields := map[string]string{}
		if errors.As(err, &invalid) {
			for _, fe := range invalid {
				fields[strings.ToLower(fe.Field())] = "failed " + fe.Tag() + " validation"
			}
		}
		apperrors.Write(w, apperrors.ValidationFields("request validation failed", fields))
		return false
	}
	return true
}

// pathID extracts a positive integer path variable.
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("invalid " + name)
	}
	return id, nil
}

// queryInt reads an optional positive integer query parameter; absent or
// malformed values are zero.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// commissionerID pulls the authenticated tenant out of the request context.
func commissionerID(r *http.Request) (int, bool) {
	return middleware.GetCommissionerIDFromContext(r.Context())
}
