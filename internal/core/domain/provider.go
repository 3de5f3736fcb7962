package domain

import (
	"strings"
)

// Provider identifies which mocked gateway API a record belongs to.
type Provider string

const (
	ProviderPaystack    Provider = "paystack"
	ProviderFlutterwave Provider = "flutterwave"
)

// ParseProvider normalizes a provider name.
func ParseProvider(s string) (Provider, bool) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderPaystack:
		return ProviderPaystack, true
	case ProviderFlutterwave:
		return ProviderFlutterwave, true
	}
	return "", false
}

// Outcome is the terminal result the next resolved payment will take.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// DefaultOutcome is what a take returns once the flag has been consumed.
const DefaultOutcome = OutcomeSuccess

// ParseOutcome accepts the canonical names plus the CLI shorthands fail/cancel.
func ParseOutcome(s string) (Outcome, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success":
		return OutcomeSuccess, true
	case "failed", "fail":
		return OutcomeFailed, true
	case "cancelled", "cancel", "canceled":
		return OutcomeCancelled, true
	}
	return "", false
}

// Fault is a transport-level failure injected by the fault gate.
type Fault string

const (
	FaultNone        Fault = "none"
	FaultServerError Fault = "server_error"
	FaultTimeout     Fault = "timeout"
	FaultNetworkDrop Fault = "network_drop"
)

// DefaultFault is what a take returns once the flag has been consumed.
const DefaultFault = FaultNone

// ParseFault accepts the canonical names plus the "500" and "network" aliases.
func ParseFault(s string) (Fault, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return FaultNone, true
	case "server_error", "500":
		return FaultServerError, true
	case "timeout":
		return FaultTimeout, true
	case "network_drop", "network":
		return FaultNetworkDrop, true
	}
	return "", false
}

// Bank is an entry of the static bank listings.
type Bank struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
	Code string `json:"code"`
}

var paystackBanks = []Bank{
	{Name: "Access Bank", Code: "044"},
	{Name: "GTBank", Code: "058"},
	{Name: "Kuda Bank", Code: "50211"},
	{Name: "Zenith Bank", Code: "057"},
}

var flutterwaveBanks = map[string][]Bank{
	"NG": {
		{ID: 1, Name: "Access Bank", Code: "044"},
		{ID: 2, Name: "GTBank", Code: "058"},
		{ID: 3, Name: "Kuda Bank", Code: "50211"},
		{ID: 4, Name: "Zenith Bank", Code: "057"},
	},
	"GH": {
		{ID: 101, Name: "GCB Bank", Code: "GH040100"},
		{ID: 102, Name: "Ecobank Ghana", Code: "GH130100"},
	},
	"KE": {
		{ID: 201, Name: "Equity Bank", Code: "KE068"},
		{ID: 202, Name: "KCB Bank", Code: "KE001"},
	},
}

// BanksFor returns the bank listing a provider serves. Country is only
// consulted for Flutterwave; unknown countries yield an empty list.
func BanksFor(p Provider, country string) []Bank {
	if p == ProviderPaystack {
		return paystackBanks
	}
	banks, ok := flutterwaveBanks[strings.ToUpper(country)]
	if !ok {
		return []Bank{}
	}
	return banks
}
