package checkout

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/lcorp/storefront/pkg/enums"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/events"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPhoneDigits = 10

// Address is a shipping or billing contact.
type Address struct {
	FullName string `json:"full_name" validate:"notblank"`
	Email    string `json:"email" validate:"notblank,storefront_email"`
	Phone    string `json:"phone" validate:"notblank,phone_digits"`
	Address  string `json:"address" validate:"notblank"`
	City     string `json:"city" validate:"notblank"`
	State    string `json:"state" validate:"notblank"`
	ZipCode  string `json:"zip_code" validate:"notblank"`
	Country  string `json:"country" validate:"notblank"`
}

// PaymentDetails carries method-specific fields. Only the fields belonging to
// Method are checked.
type PaymentDetails struct {
	Method        enums.PaymentMethod `json:"method" validate:"required,payment_method"`
	BankName      string              `json:"bank_name,omitempty"`
	AccountNumber string              `json:"account_number,omitempty"`
	WalletType    string              `json:"wallet_type,omitempty"`
	WalletID      string              `json:"wallet_id,omitempty"`
}

// Form is the checkout submission.
type Form struct {
	Shipping       Address        `json:"shipping"`
	SameAsShipping bool           `json:"same_as_shipping"`
	Billing        *Address       `json:"billing,omitempty" validate:"-"`
	Payment        PaymentDetails `json:"payment"`
	Notes          string         `json:"notes,omitempty" validate:"max=1000"`
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("storefront_email", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return strings.TrimSpace(value) == "" || IsValidEmail(value)
	})
	_ = v.RegisterValidation("phone_digits", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return strings.TrimSpace(value) == "" || IsValidPhone(value)
	})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return enums.PaymentMethod(fl.Field().String()).IsValid()
	})
	v.RegisterStructValidation(paymentRules, PaymentDetails{})
	return v
}

// IsValidEmail applies the storefront's loose email shape check.
func IsValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsValidPhone requires at least ten digits once everything else is stripped.
func IsValidPhone(value string) bool {
	digits := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= minPhoneDigits
}

func paymentRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(PaymentDetails)
	switch p.Method {
	case enums.PaymentMethodEWallet:
		if strings.TrimSpace(p.WalletID) == "" {
			sl.ReportError(p.WalletID, "wallet_id", "WalletID", "required", "")
		} else if !IsValidPhone(p.WalletID) {
			sl.ReportError(p.WalletID, "wallet_id", "WalletID", "phone_digits", "")
		}
	case enums.PaymentMethodBankTransfer:
		if strings.TrimSpace(p.BankName) == "" {
			sl.ReportError(p.BankName, "bank_name", "BankName", "required", "")
		}
		if strings.TrimSpace(p.AccountNumber) == "" {
			sl.ReportError(p.AccountNumber, "account_number", "AccountNumber", "required", "")
		}
	}
}

// Validate checks the form and returns a VALIDATION_ERROR whose details map
// dotted field paths (shipping.email, payment.bank_name) to messages.
func (f Form) Validate() error {
	details := map[string]string{}
	collect(details, "", formValidator.Struct(f))
	if !f.SameAsShipping {
		if f.Billing == nil {
			details["billing"] = "is required"
		} else {
			collect(details, "billing.", formValidator.Struct(*f.Billing))
		}
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "please fix the highlighted checkout fields").WithDetails(details)
}

// BillingAddress resolves the effective billing contact.
func (f Form) BillingAddress() Address {
	if f.SameAsShipping || f.Billing == nil {
		return f.Shipping
	}
	return *f.Billing
}

func (a Address) contact() events.Contact {
	return events.Contact{
		FullName: strings.TrimSpace(a.FullName),
		Email:    strings.TrimSpace(a.Email),
		Phone:    strings.TrimSpace(a.Phone),
		Address:  strings.TrimSpace(a.Address),
		City:     strings.TrimSpace(a.City),
		State:    strings.TrimSpace(a.State),
		ZipCode:  strings.TrimSpace(a.ZipCode),
		Country:  strings.TrimSpace(a.Country),
	}
}

func collect(details map[string]string, prefix string, err error) {
	if err == nil {
		return
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		details[strings.TrimSuffix(prefix, ".")+"_form"] = err.Error()
		return
	}
	for _, fe := range errs {
		details[prefix+fieldPath(fe.Namespace())] = fieldMessage(fe)
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "storefront_email":
		return "must be a valid email"
	case "phone_digits":
		return fmt.Sprintf("must contain at least %d digits", minPhoneDigits)
	case "payment_method":
		return "is not a supported payment method"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return "is invalid"
}
