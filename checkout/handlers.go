package checkout

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"multipay/apperr"
	"multipay/models"
	"multipay/utils"

	"github.com/julienschmidt/httprouter"
)

// respondError maps a taxonomy error onto the HTTP response. Validation
// failures are the client's problem and stay out of the server log.
func respondError(w http.ResponseWriter, operation string, err error) {
	code := apperr.CodeOf(err)
	if code >= http.StatusInternalServerError {
		log.Printf("%s: %v", operation, err)
	}
	utils.RespondWithError(w, code, apperr.MessageOf(err))
}

// sessionResponse is the session snapshot returned to clients; customer
// metadata stays server side.
type sessionResponse struct {
	CheckoutData   models.CheckoutData   `json:"checkoutData"`
	CheckoutStatus models.CheckoutStatus `json:"checkoutStatus"`
	PaymentData    *models.PaymentData   `json:"paymentData,omitempty"`
	CustomerData   *models.CustomerData  `json:"customerData,omitempty"`
}

func toSessionResponse(session *models.CheckoutSession) sessionResponse {
	return sessionResponse{
		CheckoutData:   session.CheckoutData,
		CheckoutStatus: session.CheckoutStatus,
		PaymentData:    session.PaymentData,
		CustomerData:   session.CustomerData,
	}
}

func (s *Service) InitializeSessionHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		OfferID  string `json:"offerId"`
		SellerID string `json:"sellerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OfferID == "" || req.SellerID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "offerId and sellerId are required")
		return
	}

	token, session, err := s.InitializeSession(r.Context(), req.OfferID, req.SellerID)
	if err != nil {
		respondError(w, "InitializeSession", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"sessionId":   token,
		"sessionData": toSessionResponse(session),
	})
}

func (s *Service) GetSessionHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session, err := s.GetSession(r.Context(), ps.ByName("token"))
	if err != nil {
		respondError(w, "GetSession", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Service) AcceptTrackingHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var meta models.CustomerMetadata
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	meta.UserIPAddress = utils.ReadUserIP(r)
	if meta.UserBrowserAgent == "" {
		meta.UserBrowserAgent = r.UserAgent()
	}

	if err := s.AcceptTracking(r.Context(), ps.ByName("token"), meta); err != nil {
		respondError(w, "AcceptTracking", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"accepted": true})
}

func (s *Service) AddCouponHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Coupon string `json:"coupon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Coupon == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "coupon is required")
		return
	}

	coupon, err := s.AddCoupon(r.Context(), ps.ByName("token"), req.Coupon)
	if err != nil {
		respondError(w, "AddCoupon", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"coupon": coupon})
}

func (s *Service) RemoveCouponHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := s.RemoveCoupon(r.Context(), ps.ByName("token")); err != nil {
		respondError(w, "RemoveCoupon", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"coupon": nil})
}

func (s *Service) AddOrderBumpHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		OfferID string `json:"offerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OfferID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "offerId is required")
		return
	}

	if err := s.AddOrderBump(r.Context(), ps.ByName("token"), req.OfferID); err != nil {
		respondError(w, "AddOrderBump", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"added": req.OfferID})
}

func (s *Service) RemoveOrderBumpHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := s.RemoveOrderBump(r.Context(), ps.ByName("token"), ps.ByName("offerId")); err != nil {
		respondError(w, "RemoveOrderBump", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"removed": ps.ByName("offerId")})
}

func (s *Service) ChangeQuantityHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.ChangeQuantity(r.Context(), ps.ByName("token"), req.Amount)
	if err != nil {
		respondError(w, "ChangeQuantity", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"updatedAmount": updated})
}

func (s *Service) StartSubscriptionHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var billing models.CustomerData
	if err := json.NewDecoder(r.Body).Decode(&billing); err != nil || billing.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "billing data with an email is required")
		return
	}

	clientSecret, err := s.StartSubscription(r.Context(), ps.ByName("token"), billing)
	if err != nil {
		respondError(w, "StartSubscription", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"clientSecret": clientSecret})
}

func (s *Service) PaymentConfirmHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		PaymentMethodID string `json:"paymentMethodId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentMethodID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "paymentMethodId is required")
		return
	}

	if err := s.PaymentConfirm(r.Context(), ps.ByName("token"), req.PaymentMethodID); err != nil {
		respondError(w, "PaymentConfirm", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"confirmed": true})
}

func (s *Service) UpdateCustomerHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var patch models.CustomerData
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.UpdateCustomerData(r.Context(), ps.ByName("token"), patch)
	if err != nil {
		respondError(w, "UpdateCustomerData", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (s *Service) RegisterSaleHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var personal models.CustomerData
	if err := json.NewDecoder(r.Body).Decode(&personal); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := s.RegisterSale(r.Context(), ps.ByName("token"), personal)
	if err != nil {
		respondError(w, "RegisterSale", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": status})
}

func (s *Service) InitializeUpsellHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	init, err := s.InitializeUpsell(r.Context(), ps.ByName("token"))
	if err != nil {
		respondError(w, "InitializeUpsell", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, init)
}

func (s *Service) InitializeDownsellHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	init, err := s.InitializeDownsell(r.Context(), ps.ByName("token"))
	if err != nil {
		respondError(w, "InitializeDownsell", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, init)
}

func (s *Service) ConfirmAddonHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Type AddonKind `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		(req.Type != AddonUpsell && req.Type != AddonDownsell) {
		utils.RespondWithError(w, http.StatusBadRequest, "type must be upsell or downsell")
		return
	}

	status, err := s.ConfirmAddonPayment(r.Context(), ps.ByName("token"), req.Type)
	if err != nil {
		respondError(w, "ConfirmAddonPayment", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": status})
}

func (s *Service) WebhookHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "could not read the event payload")
		return
	}

	if err := s.UpdateSaleStatus(r.Context(), r.Header.Get("Stripe-Signature"), payload); err != nil {
		respondError(w, "UpdateSaleStatus", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"received": true})
}
