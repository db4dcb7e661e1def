package risk

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
)

const (
	RuleOrderValueLess     = "ORDERVALUELESS"
	RuleOrderValueMore     = "ORDERVALUEMORE"
	RuleCustomerGroupIs    = "CUSTOMERGROUPIS"
	RuleCustomerGroupIsNot = "CUSTOMERGROUPISNOT"
	RuleZipCode            = "ZIPCODE"
	RuleBillingZipCode     = "BILLINGZIPCODE"
	RuleZoneIs             = "ZONEIS"
	RuleZoneIsNot          = "ZONEISNOT"
	RuleBillingZoneIs      = "BILLINGZONEIS"
	RuleBillingZoneIsNot   = "BILLINGZONEISNOT"
	RuleLandIs             = "LANDIS"
	RuleLandIsNot          = "LANDISNOT"
	RuleBillingLandIs      = "BILLINGLANDIS"
	RuleBillingLandIsNot   = "BILLINGLANDISNOT"
	RuleNewCustomer        = "NEWCUSTOMER"
	RuleOrderPositionsMore = "ORDERPOSITIONSMORE"
	RuleAttrIs             = "ATTRIS"
	RuleAttrIsNot          = "ATTRISNOT"
	RuleDunningLevelOne    = "DUNNINGLEVELONE"
	RuleDunningLevelTwo    = "DUNNINGLEVELTWO"
	RuleDunningLevelThree  = "DUNNINGLEVELTHREE"
	RuleInkasso            = "INKASSO"
	RuleLastOrderLess      = "LASTORDERLESS"
	RuleArticlesFrom       = "ARTICLESFROM"
	RuleLastOrdersLess     = "LASTORDERSLESS"
	RulePregStreet         = "PREGSTREET"
	RulePregBillingStreet  = "PREGBILLINGSTREET"
	RuleDiffer             = "DIFFER"
	RuleCustomerNumber     = "CUSTOMERNR"
	RuleLastName           = "LASTNAME"
	RuleSubshop            = "SUBSHOP"
	RuleSubshopNot         = "SUBSHOPNOT"
	RuleCurrenciesIsoIs    = "CURRENCIESISOIS"
	RuleCurrenciesIsoIsNot = "CURRENCIESISOISNOT"
)

type ruleFunc func(in *Input, value string) bool

// Evaluator decides whether a payment method is blocked for a checkout.
type Evaluator struct {
	logger interfaces.LoggerPort
	now    func() time.Time
	rules  map[string]ruleFunc
}

func NewEvaluator(logger interfaces.LoggerPort) *Evaluator {
	e := &Evaluator{logger: logger, now: time.Now}
	e.rules = map[string]ruleFunc{
		RuleOrderValueLess:     e.orderValueLess,
		RuleOrderValueMore:     e.orderValueMore,
		RuleCustomerGroupIs:    func(in *Input, v string) bool { return in.CustomerGroupKey == v },
		RuleCustomerGroupIsNot: func(in *Input, v string) bool { return in.CustomerGroupKey != v },
		RuleZipCode:            func(in *Input, v string) bool { return in.Shipping.ZipCode == v },
		RuleBillingZipCode:     func(in *Input, v string) bool { return in.Billing.ZipCode == v },
		RuleZoneIs:             func(in *Input, v string) bool { return in.Shipping.Zone != "" && in.Shipping.Zone == v },
		RuleZoneIsNot:          func(in *Input, v string) bool { return in.Shipping.Zone != v },
		RuleBillingZoneIs:      func(in *Input, v string) bool { return in.Billing.Zone != "" && in.Billing.Zone == v },
		RuleBillingZoneIsNot:   func(in *Input, v string) bool { return in.Billing.Zone != v },
		RuleLandIs:             func(in *Input, v string) bool { return strings.EqualFold(in.Shipping.CountryISO, v) },
		RuleLandIsNot:          func(in *Input, v string) bool { return !strings.EqualFold(in.Shipping.CountryISO, v) },
		RuleBillingLandIs:      func(in *Input, v string) bool { return strings.EqualFold(in.Billing.CountryISO, v) },
		RuleBillingLandIsNot:   func(in *Input, v string) bool { return !strings.EqualFold(in.Billing.CountryISO, v) },
		RuleNewCustomer:        e.newCustomer,
		RuleOrderPositionsMore: orderPositionsMore,
		RuleAttrIs:             attrIs,
		RuleAttrIsNot:          attrIsNot,
		RuleDunningLevelOne:    clearedWith(ClearedDunningLevelOne),
		RuleDunningLevelTwo:    clearedWith(ClearedDunningLevelTwo),
		RuleDunningLevelThree:  clearedWith(ClearedDunningLevelThree),
		RuleInkasso:            clearedWith(ClearedCollection),
		RuleLastOrderLess:      e.lastOrderLess,
		RuleArticlesFrom:       articlesFrom,
		RuleLastOrdersLess:     lastOrdersLess,
		RulePregStreet:         func(in *Input, v string) bool { return matches(v, in.Shipping.Street) },
		RulePregBillingStreet:  func(in *Input, v string) bool { return matches(v, in.Billing.Street) },
		RuleDiffer:             differ,
		RuleCustomerNumber:     func(in *Input, v string) bool { return in.CustomerNumber != "" && in.CustomerNumber == v },
		RuleLastName:           func(in *Input, v string) bool { return matches(v, in.Billing.LastName) },
		RuleSubshop:            func(in *Input, v string) bool { return strconv.Itoa(in.ShopID) == strings.TrimSpace(v) },
		RuleSubshopNot:         func(in *Input, v string) bool { return strconv.Itoa(in.ShopID) != strings.TrimSpace(v) },
		RuleCurrenciesIsoIs:    func(in *Input, v string) bool { return strings.EqualFold(in.CurrencyISO, v) },
		RuleCurrenciesIsoIsNot: func(in *Input, v string) bool { return !strings.EqualFold(in.CurrencyISO, v) },
	}
	return e
}

// WithClock replaces the time source used by date based rules.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// IsRisky reports whether any rule set matches. A rule set matches when Rule1
// holds and Rule2 is empty or holds too.
func (e *Evaluator) IsRisky(ruleSets []RuleSet, in *Input) bool {
	for _, set := range ruleSets {
		if set.Rule1 == "" {
			continue
		}
		if !e.Evaluate(set.Rule1, set.Value1, in) {
			continue
		}
		if set.Rule2 == "" || e.Evaluate(set.Rule2, set.Value2, in) {
			e.logger.Debug("risk rule set matched",
				interfaces.LogField{Key: "rule_set_id", Value: set.ID},
				interfaces.LogField{Key: "payment_id", Value: set.PaymentID},
			)
			return true
		}
	}
	return false
}

// Evaluate runs a single rule. Unknown rules never match.
func (e *Evaluator) Evaluate(rule, value string, in *Input) bool {
	fn, ok := e.rules[strings.ToUpper(strings.TrimSpace(rule))]
	if !ok {
		e.logger.Warn("unknown risk rule", interfaces.LogField{Key: "rule", Value: rule})
		return false
	}
	return fn(in, value)
}

// Known reports whether rule is a supported rule name.
func (e *Evaluator) Known(rule string) bool {
	_, ok := e.rules[strings.ToUpper(strings.TrimSpace(rule))]
	return ok
}

func parseFloat(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(value), ",", ".", 1), 64)
	return f, err == nil
}

func parseInt(value string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(value))
	return i, err == nil
}

// basketValue is the basket amount in the default currency.
func basketValue(in *Input) float64 {
	if in.CurrencyFactor > 0 {
		return in.Amount / in.CurrencyFactor
	}
	return in.Amount
}

func (e *Evaluator) orderValueLess(in *Input, value string) bool {
	limit, ok := parseFloat(value)
	return ok && basketValue(in) < limit
}

func (e *Evaluator) orderValueMore(in *Input, value string) bool {
	limit, ok := parseFloat(value)
	return ok && basketValue(in) > limit
}

func (e *Evaluator) newCustomer(in *Input, _ string) bool {
	if in.FirstLogin == nil {
		return false
	}
	return in.FirstLogin.Format("2006-01-02") == e.now().Format("2006-01-02")
}

func orderPositionsMore(in *Input, value string) bool {
	limit, ok := parseInt(value)
	return ok && len(in.Basket) >= limit
}

// splitAttribute parses "attrN|value" or "N|value".
func splitAttribute(value string) (string, string, bool) {
	parts := strings.SplitN(value, "|", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
		return "", "", false
	}
	number := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(parts[0])), "attr")
	return "attr" + number, parts[1], true
}

func attributeString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		if val {
			return "1", true
		}
		return "0", true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	}
	return "", false
}

func attrIs(in *Input, value string) bool {
	field, expected, ok := splitAttribute(value)
	if !ok {
		return false
	}
	for _, item := range in.Basket {
		if actual, ok := attributeString(item.Attributes[field]); ok && actual == expected {
			return true
		}
	}
	return false
}

func attrIsNot(in *Input, value string) bool {
	field, expected, ok := splitAttribute(value)
	if !ok {
		return false
	}
	for _, item := range in.Basket {
		if actual, ok := attributeString(item.Attributes[field]); ok && actual != expected {
			return true
		}
	}
	return false
}

func clearedWith(cleared int) ruleFunc {
	return func(in *Input, _ string) bool {
		for _, order := range in.Orders {
			if order.Cleared == cleared {
				return true
			}
		}
		return false
	}
}

// lastOrderLess holds while the customer has no order that is at least value
// days old.
func (e *Evaluator) lastOrderLess(in *Input, value string) bool {
	if in.CustomerID == 0 {
		return true
	}
	days, ok := parseInt(value)
	if !ok {
		return false
	}

	today := truncateDay(e.now())
	for _, order := range in.Orders {
		age := int(today.Sub(truncateDay(order.OrderTime)).Hours() / 24)
		if age >= days {
			return false
		}
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func articlesFrom(in *Input, value string) bool {
	categoryID, ok := parseInt(value)
	if !ok {
		return false
	}
	for _, item := range in.Basket {
		for _, id := range item.CategoryIDs {
			if id == categoryID {
				return true
			}
		}
	}
	return false
}

func lastOrdersLess(in *Input, value string) bool {
	limit, ok := parseInt(value)
	if !ok {
		return false
	}
	count := 0
	for _, order := range in.Orders {
		if order.Status != OrderStatusCancelled && order.Status != OrderStatusCanceled {
			count++
		}
	}
	return count <= limit
}

func matches(pattern, subject string) bool {
	if pattern == "" {
		return false
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return false
	}
	return re.MatchString(subject)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func differ(in *Input, _ string) bool {
	b, s := in.Billing, in.Shipping
	if s.Street == "" && s.ZipCode == "" && s.LastName == "" {
		return false
	}
	return normalize(b.Street) != normalize(s.Street) ||
		normalize(b.ZipCode) != normalize(s.ZipCode) ||
		normalize(b.City) != normalize(s.City) ||
		normalize(b.LastName) != normalize(s.LastName) ||
		normalize(b.CountryISO) != normalize(s.CountryISO)
}
