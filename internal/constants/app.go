package constants

const (
	AppName         = "teller"
	EnvPrefix       = "TELLER"
	DefaultCurrency = "USD"
	DefaultLocale   = "en-US"
	DefaultBaseURL  = "http://localhost:3000"
	DefaultAddr     = ":3000"
	DatabaseFile    = "teller.db"
)
