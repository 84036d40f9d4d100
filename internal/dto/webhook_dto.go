package dto

type RevenueCatWebhook struct {
	APIVersion string          `json:"api_version"`
	Event      RevenueCatEvent `json:"event"`
}

// RevenueCatEvent keeps the fields subscription handling reads. AppUserID is
// the account UUID the app registered with RevenueCat.
type RevenueCatEvent struct {
	Type              string   `json:"type"`
	ID                string   `json:"id"`
	AppUserID         string   `json:"app_user_id"`
	OriginalAppUserID string   `json:"original_app_user_id"`
	ProductID         string   `json:"product_id"`
	EntitlementIDs    []string `json:"entitlement_ids"`
	ExpirationAtMs    int64    `json:"expiration_at_ms"`
	Environment       string   `json:"environment"`
}
