package routes

import (
	"multipay/checkout"
	"multipay/middleware"
	"multipay/ratelim"
	"multipay/subscription"

	"github.com/julienschmidt/httprouter"
)

func AddCheckoutRoutes(router *httprouter.Router, svc *checkout.Service, rl *ratelim.RateLimiter) {
	router.POST("/api/v1/checkout/session", rl.Limit(svc.InitializeSessionHandler))
	router.GET("/api/v1/checkout/session/:token", svc.GetSessionHandler)
	router.POST("/api/v1/checkout/session/:token/tracking", svc.AcceptTrackingHandler)
	router.PUT("/api/v1/checkout/session/:token/customer", svc.UpdateCustomerHandler)

	router.POST("/api/v1/checkout/session/:token/coupon", svc.AddCouponHandler)
	router.DELETE("/api/v1/checkout/session/:token/coupon", svc.RemoveCouponHandler)

	router.POST("/api/v1/checkout/session/:token/order-bump", svc.AddOrderBumpHandler)
	router.DELETE("/api/v1/checkout/session/:token/order-bump/:offerId", svc.RemoveOrderBumpHandler)

	router.PUT("/api/v1/checkout/session/:token/amount", svc.ChangeQuantityHandler)

	router.POST("/api/v1/checkout/session/:token/subscription", rl.Limit(svc.StartSubscriptionHandler))
	router.POST("/api/v1/checkout/session/:token/subscription/confirm", svc.PaymentConfirmHandler)

	router.POST("/api/v1/checkout/session/:token/register", svc.RegisterSaleHandler)

	router.POST("/api/v1/checkout/session/:token/upsell", svc.InitializeUpsellHandler)
	router.POST("/api/v1/checkout/session/:token/downsell", svc.InitializeDownsellHandler)
	router.POST("/api/v1/checkout/session/:token/addon/confirm", svc.ConfirmAddonHandler)

	router.POST("/api/v1/checkout/webhook", svc.WebhookHandler)
}

func AddSubscriptionRoutes(router *httprouter.Router, svc *subscription.Service) {
	router.GET("/api/v1/subscription/:token", middleware.Authenticate(svc.FetchSubscriptionHandler))
	router.POST("/api/v1/subscription/:token/setup-intent", middleware.Authenticate(svc.CreateSetupIntentHandler))
	router.PUT("/api/v1/subscription/:token/payment-method", middleware.Authenticate(svc.UpdatePaymentMethodHandler))
	router.DELETE("/api/v1/subscription/:token", middleware.Authenticate(svc.CancelSubscriptionHandler))
}
