package handlers

import (
	"github.com/roshan-ds-tech/shreshta-backend-final/config"
	"github.com/roshan-ds-tech/shreshta-backend-final/razorpay"
	"github.com/roshan-ds-tech/shreshta-backend-final/shiprocket"
	"github.com/roshan-ds-tech/shreshta-backend-final/whatsapp"
)

// Provider clients shared by the handlers, wired once at startup.
var (
	Shiprocket *shiprocket.Client
	Razorpay   *razorpay.Client
	WhatsApp   *whatsapp.Notifier

	pickupPincode string
)

// InitClients builds the provider clients from the environment.
func InitClients() {
	Shiprocket = shiprocket.NewClient(
		config.GetEnv("SHIPROCKET_API_BASE_URL", "https://apiv2.shiprocket.in/v1/external"),
		config.GetEnv("SHIPROCKET_EMAIL", ""),
		config.GetEnv("SHIPROCKET_PASSWORD", ""),
		config.GetEnv("SHIPROCKET_PICKUP_LOCATION", "Home"),
		config.GetEnvInt("SHIPROCKET_PICKUP_ADDRESS_ID", 18928400),
	)
	Razorpay = razorpay.NewClient(
		config.GetEnv("RAZORPAY_KEY_ID", ""),
		config.GetEnv("RAZORPAY_KEY_SECRET", ""),
	)
	WhatsApp = whatsapp.NewNotifier(
		config.GetEnv("WHATSAPP_ADMIN_NUMBER", "7996029992"),
		config.GetEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		config.GetEnv("WHATSAPP_ACCESS_TOKEN", ""),
		config.GetEnv("WHATSAPP_API_VERSION", "v18.0"),
	)
	pickupPincode = config.GetEnv("SHIPROCKET_PICKUP_PINCODE", "560001")
}
