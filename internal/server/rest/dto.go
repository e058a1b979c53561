package rest

import "time"

type registerRequest struct {
	Username             string `json:"username"`
	Password             string `json:"password"`
	RequireSecondaryAuth *bool  `json:"requireSecondaryAuth"`
}

type registerResponse struct {
	Username             string `json:"username"`
	RequireSecondaryAuth bool   `json:"requireSecondaryAuth"`
}

type loginRequest struct {
	Username               string `json:"username"`
	Password               string `json:"password"`
	SecondaryAuthConfirmed bool   `json:"secondaryAuthConfirmed"`
}

type loginResponse struct {
	Token                string `json:"token"`
	RequireSecondaryAuth bool   `json:"requireSecondaryAuth"`
}

type createSecretRequest struct {
	Description string `json:"description"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

type secretResponse struct {
	ID           string    `json:"id"`
	Description  string    `json:"description"`
	Username     string    `json:"username"`
	Secret       string    `json:"secret"`
	CreatedAtUTC time.Time `json:"createdAtUtc"`
}

// generateRequest fields are pointers so omitted values take their defaults.
type generateRequest struct {
	Length           *int  `json:"length"`
	IncludeUppercase *bool `json:"includeUppercase"`
	IncludeLowercase *bool `json:"includeLowercase"`
	IncludeNumbers   *bool `json:"includeNumbers"`
	IncludeSymbols   *bool `json:"includeSymbols"`
}

type generateResponse struct {
	Password string `json:"password"`
}

type errorResponse struct {
	Message string `json:"message"`
}
