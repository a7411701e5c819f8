package subscription

import (
	"encoding/json"
	"log"
	"net/http"

	"multipay/apperr"
	"multipay/globals"
	"multipay/utils"

	"github.com/julienschmidt/httprouter"
)

func respondError(w http.ResponseWriter, operation string, err error) {
	code := apperr.CodeOf(err)
	if code >= http.StatusInternalServerError {
		log.Printf("%s: %v", operation, err)
	}
	utils.RespondWithError(w, code, apperr.MessageOf(err))
}

// authCustomerID is the customer the auth middleware verified.
func authCustomerID(r *http.Request) string {
	id, _ := r.Context().Value(globals.CustomerTokenKey).(string)
	return id
}

func (s *Service) FetchSubscriptionHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	details, err := s.FetchSubscription(r.Context(), ps.ByName("token"), authCustomerID(r))
	if err != nil {
		respondError(w, "FetchSubscription", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, details)
}

func (s *Service) CreateSetupIntentHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	clientSecret, err := s.CreateSetupIntent(r.Context(), ps.ByName("token"), authCustomerID(r))
	if err != nil {
		respondError(w, "CreateSetupIntent", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"clientSecret": clientSecret})
}

func (s *Service) UpdatePaymentMethodHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		PaymentMethodID string `json:"paymentMethodId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.UpdatePaymentMethod(r.Context(), ps.ByName("token"), authCustomerID(r), req.PaymentMethodID); err != nil {
		respondError(w, "UpdatePaymentMethod", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"updated": true})
}

func (s *Service) CancelSubscriptionHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := s.CancelSubscription(r.Context(), ps.ByName("token"), authCustomerID(r)); err != nil {
		respondError(w, "CancelSubscription", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"canceled": true})
}
