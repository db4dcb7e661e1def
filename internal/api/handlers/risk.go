package handlers

import (
	"context"
	"net/http"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/risk"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
)

type RiskRuleService interface {
	RuleSets(ctx context.Context, paymentID int) ([]risk.RuleSet, error)
	SaveRuleSets(ctx context.Context, paymentID int, sets []risk.RuleSet) error
}

// RiskRuleHandler maintains the risk rules of payment methods.
type RiskRuleHandler struct {
	rules  RiskRuleService
	logger interfaces.LoggerPort
}

func NewRiskRuleHandler(rules RiskRuleService, logger interfaces.LoggerPort) *RiskRuleHandler {
	return &RiskRuleHandler{rules: rules, logger: logger}
}

func (h *RiskRuleHandler) List(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(r, "paymentID")
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load risk rules")
		return
	}

	sets, err := h.rules.RuleSets(r.Context(), paymentID)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load risk rules")
		return
	}
	if sets == nil {
		sets = []risk.RuleSet{}
	}
	writeList(w, r, sets, len(sets))
}

// Replace swaps all rule sets of the payment method.
func (h *RiskRuleHandler) Replace(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(r, "paymentID")
	if err != nil {
		writeError(w, r, h.logger, err, "failed to save risk rules")
		return
	}

	var sets []risk.RuleSet
	if err := decodeJSON(r, &sets); err != nil {
		writeError(w, r, h.logger, err, "failed to save risk rules")
		return
	}

	if err := h.rules.SaveRuleSets(r.Context(), paymentID, sets); err != nil {
		writeError(w, r, h.logger, err, "failed to save risk rules")
		return
	}
	writeList(w, r, sets, len(sets))
}
