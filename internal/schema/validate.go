package schema

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/Skotchmaster/food_delivery/internal/models"
)

var (
	ErrValidation = errors.New("validation")
	ErrDuplicate  = fmt.Errorf("%w: duplicate key", ErrValidation)
)

var emailPattern = regexp.MustCompile(`^.+@.+\..+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "email_pattern", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	v.RegisterStructValidation(orderTotals, models.Order{})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// orderTotals checks that line totals equal quantity times unit price and
// that the order total, when set and finite, equals the sum of line totals.
func orderTotals(sl validator.StructLevel) {
	o := sl.Current().Interface().(models.Order)

	var sum float64
	for i, it := range o.Items {
		if !sameCents(it.TotalPrice, float64(it.Quantity)*it.UnitPrice) {
			sl.ReportError(it.TotalPrice, fmt.Sprintf("items[%d].total_price", i), "TotalPrice", "line_total", "")
		}
		sum += it.TotalPrice
	}
	if o.TotalAmount != nil && !math.IsInf(*o.TotalAmount, 0) && !math.IsNaN(*o.TotalAmount) && !sameCents(*o.TotalAmount, sum) {
		sl.ReportError(*o.TotalAmount, "total_amount", "TotalAmount", "order_total", "")
	}
}

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rule a document broke. It matches ErrValidation.
type ValidationError struct {
	Collection string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+" "+v.Message)
	}
	return fmt.Sprintf("validation: %s: %s", e.Collection, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// violations converts validator output. field overrides the reported name,
// which single values checked with Var do not have.
func violations(collection, field string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s: %v", ErrValidation, collection, err)
	}

	out := &ValidationError{Collection: collection}
	for _, fe := range fieldErrs {
		name := field
		if name == "" {
			// drop the root type name: "Order.items[0].quantity" -> "items[0].quantity"
			_, name, _ = strings.Cut(fe.Namespace(), ".")
		}
		out.Violations = append(out.Violations, Violation{Field: name, Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " element(s)"
		}
		return "must be >= " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "finite":
		return "must be a finite number"
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "email_pattern":
		return "must look like name@domain.tld"
	case "line_total":
		return "must equal quantity * unit_price"
	case "order_total":
		return "must equal the sum of item totals"
	}
	return "failed " + fe.Tag()
}

func ValidCategory(c models.Category) bool {
	for _, v := range models.Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidStatus(s models.OrderStatus) bool {
	for _, v := range models.Statuses {
		if v == s {
			return true
		}
	}
	return false
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidateDish(d *models.Dish) error {
	return violations(CollectionDishes, "", validate.Struct(d))
}

func ValidateCustomer(c *models.Customer) error {
	return violations(CollectionCustomers, "", validate.Struct(c))
}

func ValidateOrder(o *models.Order) error {
	return violations(CollectionOrders, "", validate.Struct(o))
}

func sameCents(a, b float64) bool {
	return math.Abs(models.RoundCents(a)-models.RoundCents(b)) < 0.001
}
