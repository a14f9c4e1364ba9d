package enums

import "fmt"

// PayMethod describes how a shopper settles a purchase contract. Import
// contracts carry no pay method at all.
type PayMethod string

const (
	PayMethodOnline      PayMethod = "online"
	PayMethodGooglePay   PayMethod = "google_pay"
	PayMethodApplePay    PayMethod = "apple_pay"
	PayMethodYandexMoney PayMethod = "yandex_money"
	PayMethodCash        PayMethod = "cash"
)

var validPayMethods = []PayMethod{
	PayMethodOnline,
	PayMethodGooglePay,
	PayMethodApplePay,
	PayMethodYandexMoney,
	PayMethodCash,
}

// String implements fmt.Stringer.
func (p PayMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PayMethod.
func (p PayMethod) IsValid() bool {
	for _, candidate := range validPayMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePayMethod converts raw input into a PayMethod.
func ParsePayMethod(value string) (PayMethod, error) {
	for _, candidate := range validPayMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pay method %q", value)
}

// PayMethods lists every accepted value, for error messages.
func PayMethods() []PayMethod {
	out := make([]PayMethod, len(validPayMethods))
	copy(out, validPayMethods)
	return out
}
