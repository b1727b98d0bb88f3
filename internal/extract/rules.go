package extract

import (
	"fmt"
	"regexp"
	"strings"
)

func re(p string) *regexp.Regexp { return regexp.MustCompile(`(?i)` + p) }

const (
	money = `((?:us\$|usd ?|\$|€|£) ?[0-9][0-9,]*(?:\.[0-9]{1,2})?)`
	count = `([0-9]{1,3}|[a-z]+(?:[- ][a-z]+)?) ?(?:\([0-9]{1,3}\) ?)?`
	days  = count + `(?:calendar |business )?[- ]?days?`
)

var providers = map[string]string{
	"american arbitration association":            "AAA",
	"aaa":                                         "AAA",
	"jams":                                        "JAMS",
	"judicial arbitration and mediation services": "JAMS",
	"icc":                                         "ICC",
	"international chamber of commerce":           "ICC",
	"national arbitration forum":                  "NAF",
}

func amountFact(i int) func([]string) Facts {
	return func(m []string) Facts {
		if v, ok := ParseAmount(m[i]); ok {
			return Facts{Amount: &v}
		}
		return Facts{}
	}
}

func daysFact(i int) func([]string) Facts {
	return func(m []string) Facts {
		if v, ok := ParseDays(m[i]); ok {
			return Facts{Days: &v}
		}
		return Facts{}
	}
}

func percentFact(i int) func([]string) Facts {
	return func(m []string) Facts {
		if v, ok := ParsePercent(m[i]); ok {
			return Facts{Percent: &v}
		}
		return Facts{}
	}
}

func shortWindow(f Facts) bool { return f.Days != nil && *f.Days < 14 }

func longWindow(f Facts) bool { return f.Days != nil && *f.Days >= 14 }

var (
	returnWithin = re(`(?:returns?|returned|return requests?|exchanges?)[^.]{0,60}?within ` + days)
	dayPolicy    = re(count + `[- ]?days? (?:return|refund) (?:window|policy|period)`)

	// Processing and crediting times are not the return window.
	processingTime = re(`(?:processed|issued|credited|posted|reflected|refunded) within`)
)

// DefaultDetectors is the built-in rule table. Rule order inside a detector is
// its fact priority.
func DefaultDetectors() []Detector {
	return []Detector{
		{
			Clause: "binding_arbitration",
			Rules: []Rule{
				{
					Name:    "administered_by",
					Pattern: re(`binding arbitration[^.]{0,80}?administered by (?:the )?(american arbitration association|aaa|jams|judicial arbitration and mediation services|international chamber of commerce|icc|national arbitration forum)\b`),
					Facts: func(m []string) Facts {
						return Facts{Provider: providers[strings.ToLower(m[1])]}
					},
				},
				{Name: "resolved_by", Pattern: re(`(?:resolved|settled|decided|determined) (?:exclusively |solely |only )?(?:by|through|in) (?:final and )?binding (?:individual )?arbitration`)},
				{Name: "agree_to_arbitrate", Pattern: re(`(?:agree|consent)s? to (?:final |binding |individual )*arbitrat(?:e|ion)`)},
				{Name: "binding_arbitration", Pattern: re(`\bbinding arbitration\b`)},
			},
			FactRules: []Rule{
				{
					Name:    "provider_rules",
					Pattern: re(`\b(american arbitration association|jams|national arbitration forum)\b`),
					Facts: func(m []string) Facts {
						return Facts{Provider: providers[strings.ToLower(m[1])]}
					},
				},
				{
					Name:    "opt_out_window",
					Pattern: re(`opt[- ]out of (?:this |the )?(?:agreement to )?arbitrat[^.]{0,80}?within ` + days),
					Facts: func(m []string) Facts {
						if v, ok := ParseDays(m[1]); ok {
							return Facts{OptOutDays: &v}
						}
						return Facts{}
					},
				},
			},
			Unless: []*regexp.Regexp{
				re(`(?:not|never) (?:be )?(?:required|subject|forced) to (?:binding )?arbitration`),
			},
		},
		{
			Clause: "class_action_waiver",
			Rules: []Rule{
				{Name: "waive_class", Pattern: re(`waive[sd]? (?:any |your |the |all )?(?:right|ability)? ?(?:to )?(?:participate in |bring |join |commence )?(?:a |any )?class[- ]action`)},
				{Name: "waiver_heading", Pattern: re(`class[- ]action waiver`)},
				{Name: "individual_basis", Pattern: re(`individual basis,? (?:and )?not (?:as a (?:plaintiff or )?class member|in a class|on a class)`)},
				{Name: "no_class", Pattern: re(`(?:no|not participate in any) (?:class|collective|representative) (?:actions?|proceedings?|arbitrations?)`)},
			},
		},
		{
			Clause: "jury_trial_waiver",
			Rules: []Rule{
				{Name: "waive_jury", Pattern: re(`waive[sd]? (?:any |your |the |all )?(?:right to )?(?:a )?(?:trial by jury|jury trial)`)},
				{Name: "waiver_heading", Pattern: re(`jury trial waiver`)},
			},
		},
		{
			Clause: "liability_cap",
			Rules: []Rule{
				{Name: "shall_not_exceed_amount", Pattern: re(`(?:total|aggregate|maximum|entire|cumulative) liability[^.]{0,120}?(?:shall|will|does|must) not exceed (?:the (?:greater|lesser) of )?` + money), Facts: amountFact(1)},
				{Name: "limited_to_amount", Pattern: re(`liability[^.]{0,80}?(?:is |shall be |will be )?limited to (?:the (?:greater|lesser) of )?` + money), Facts: amountFact(1)},
				{Name: "no_event_more_than", Pattern: re(`in no event[^.]{0,120}?liable[^.]{0,60}?(?:more than|in excess of|exceeding|greater than) ` + money), Facts: amountFact(1)},
				{Name: "not_exceed_paid", Pattern: re(`liability[^.]{0,120}?(?:shall|will) not exceed (?:the )?(?:amount|price|fees?|total)[^.]{0,20}?paid`)},
				{Name: "limitation_heading", Pattern: re(`limitation of liability`)},
			},
		},
		{
			Clause: "at_will_termination",
			Rules: []Rule{
				{Name: "terminate_at_any_time", Pattern: re(`(?:terminate|suspend|cancel)[^.]{0,60}?(?:account|access|service|membership)s?[^.]{0,60}?at any time`)},
				{Name: "at_any_time_terminate", Pattern: re(`at any time[^.]{0,40}?(?:terminate|suspend)`)},
				{Name: "without_cause", Pattern: re(`(?:terminate|suspend)[^.]{0,60}?(?:with or without|without) (?:cause|notice|reason)`)},
			},
			// The buyer's own right to cancel is not a seller termination power.
			UnlessSentence: []*regexp.Regexp{
				re(`\byou (?:may|can|are free to|have the right to) (?:cancel|terminate|end)`),
				re(`\byour right to (?:cancel|terminate)`),
			},
		},
		{
			Clause: "unilateral_changes",
			Rules: []Rule{
				{Name: "modify_terms", Pattern: re(`(?:change|modify|revise|update|amend)[^.]{0,40}?(?:these |this |the |our )?(?:terms|policy|agreement|policies)[^.]{0,60}?(?:at any time|without (?:prior )?notice|sole discretion)`)},
				{Name: "reserve_right", Pattern: re(`reserve[sd]? the right to (?:change|modify|amend|update)[^.]{0,30}?(?:terms|agreement|polic)`)},
			},
		},
		{
			Clause: "indemnification",
			Rules: []Rule{
				{Name: "indemnify", Pattern: re(`\bindemnify\b`)},
				{Name: "hold_harmless", Pattern: re(`hold (?:us|[a-z]+(?: [a-z]+)?) harmless`)},
			},
		},
		{
			Clause: "forum_selection",
			Rules: []Rule{
				{Name: "exclusive_venue", Pattern: re(`exclusive (?:jurisdiction|venue|forum)`)},
				{Name: "submit_jurisdiction", Pattern: re(`(?:submit|consent) to the (?:personal |exclusive )*jurisdiction of`)},
			},
		},
		{
			Clause: "final_sale",
			Rules: []Rule{
				{Name: "all_sales_final", Pattern: re(`all sales (?:are )?final`)},
				{Name: "final_sale", Pattern: re(`\bfinal sale\b`)},
			},
		},
		{
			Clause: "no_returns",
			Rules: []Rule{
				{Name: "no_returns", Pattern: re(`\bno returns\b`)},
				{Name: "not_accept_returns", Pattern: re(`(?:do|does|will|can) not (?:accept|take|allow|offer) returns`)},
				{Name: "returns_not_accepted", Pattern: re(`returns (?:are|will) not (?:be )?(?:accepted|allowed|permitted)`)},
				{Name: "non_returnable", Pattern: re(`\b(?:not|non)[- ]?returnable\b`)},
				{Name: "cannot_be_returned", Pattern: re(`cannot be returned`)},
			},
			// Positive acceptance language wins over a negative phrase elsewhere.
			Unless: []*regexp.Regexp{
				re(`\bwe (?:gladly |happily |will )?accept returns`),
				re(`returns are (?:accepted|welcome)`),
				re(`\b(?:free|easy|hassle[- ]free) returns`),
				re(`\b(?:you )?(?:may|can) return (?:any |your |the |most )?(?:items?|orders?|purchases?|products?)`),
			},
		},
		{
			Clause: "no_refund",
			Rules: []Rule{
				{Name: "no_refunds", Pattern: re(`\bno refunds?\b`)},
				{Name: "non_refundable_items", Pattern: re(`(?:items?|purchases?|orders?|products?|subscriptions?|payments?|sales) (?:are |is )?(?:strictly |completely )?(?:non[- ]?refundable|not refundable)`)},
				{Name: "non_refundable_prefix", Pattern: re(`non[- ]?refundable (?:items?|purchases?|orders?|products?)`)},
				{Name: "will_not_refund", Pattern: re(`(?:will not|won't|do not|does not|cannot) (?:issue|provide|offer|give|grant) (?:any )?refunds?`)},
				{Name: "all_sales_final", Pattern: re(`all sales (?:are )?final`)},
			},
			UnlessSentence: []*regexp.Regexp{
				re(`\bfull refund`),
				re(`money[- ]back guarantee`),
			},
		},
		{
			Clause: "no_exchanges",
			Rules: []Rule{
				{Name: "no_exchanges", Pattern: re(`\bno (?:returns? (?:or|and|/) )?exchanges?\b`)},
				{Name: "not_accept_exchanges", Pattern: re(`(?:do|does|will) not (?:accept|offer|allow) exchanges`)},
				{Name: "exchanges_not_accepted", Pattern: re(`exchanges (?:are|will) not (?:be )?(?:accepted|offered|permitted)`)},
			},
			Unless: []*regexp.Regexp{
				re(`\bfree exchanges?`),
			},
		},
		{
			Clause: "short_return_window",
			Rules: []Rule{
				{Name: "within_days", Pattern: returnWithin, Facts: daysFact(1), Require: shortWindow},
				{Name: "day_policy", Pattern: dayPolicy, Facts: daysFact(1), Require: shortWindow},
			},
			UnlessSentence: []*regexp.Regexp{
				processingTime,
			},
			UnlessRules: []Rule{
				{Name: "longer_within_days", Pattern: returnWithin, Facts: daysFact(1), Require: longWindow},
				{Name: "longer_day_policy", Pattern: dayPolicy, Facts: daysFact(1), Require: longWindow},
			},
		},
		{
			Clause: "restocking_fee",
			Rules: []Rule{
				{Name: "percent_before", Pattern: re(`([0-9]{1,2}(?:\.[0-9]+)? ?(?:%|percent)) restocking fee`), Facts: percentFact(1)},
				{Name: "percent_after", Pattern: re(`restocking fee of (?:up to )?([0-9]{1,2}(?:\.[0-9]+)? ?(?:%|percent))`), Facts: percentFact(1)},
				{Name: "amount_after", Pattern: re(`restocking fee of (?:up to )?` + money), Facts: amountFact(1)},
				{Name: "restocking_fee", Pattern: re(`restocking fees?`)},
			},
			Unless: []*regexp.Regexp{
				re(`\bno restocking fees?`),
			},
		},
		{
			Clause: "store_credit_only",
			Rules: []Rule{
				{Name: "only_store_credit", Pattern: re(`(?:only|solely|exclusively) (?:in the form of |as |for |via )?(?:an? )?(?:store credit|gift card|merchandise credit)`)},
				{Name: "store_credit_only", Pattern: re(`store credit only`)},
				{Name: "issued_as_credit", Pattern: re(`refunds?[^.]{0,40}?(?:issued|given|provided) (?:as|in the form of|in) (?:a )?store credit`)},
			},
		},
		{
			Clause: "buyer_pays_return_shipping",
			Rules: []Rule{
				{Name: "responsible_for", Pattern: re(`(?:customer|buyer|you)(?: is| are| will be)? responsible for (?:all |any )?(?:the )?(?:costs? of )?return shipping`)},
				{Name: "costs_paid_by", Pattern: re(`return shipping (?:costs?|fees?|charges?) (?:are|is|will be) (?:the )?(?:responsibility of the |paid by the |borne by the )?(?:customer|buyer|your)`)},
				{Name: "own_expense", Pattern: re(`return shipping (?:is|are) (?:not free|at (?:your|the customer's|the buyer's) (?:own )?expense)`)},
			},
			Unless: []*regexp.Regexp{
				re(`free return shipping`),
				re(`\bfree returns`),
				re(`prepaid return (?:label|shipping)`),
			},
		},
		{
			Clause: "auto_renewal",
			Rules: []Rule{
				{Name: "automatically_renew", Pattern: re(`automatically renews?`)},
				{Name: "auto_renew", Pattern: re(`\bauto[- ]?renew`)},
				{Name: "renews_automatically", Pattern: re(`renews? automatically`)},
				{Name: "recurring_billing", Pattern: re(`recurring (?:billing|charges?|payments?)`)},
			},
		},
		{
			Clause: "hidden_fees",
			Rules: []Rule{
				{Name: "named_fee_amount", Pattern: re(`(?:service|processing|convenience|handling|administrative) fee of ` + money), Facts: amountFact(1)},
				{Name: "additional_fees", Pattern: re(`(?:additional|other|extra) (?:fees|charges) (?:may|might|will) (?:apply|be (?:charged|added|assessed))`)},
				{Name: "named_fee", Pattern: re(`(?:service|processing|convenience|handling|administrative) fees? (?:may|will) (?:apply|be (?:added|charged))`)},
			},
		},
		{
			Clause: "price_change_without_notice",
			Rules: []Rule{
				{Name: "subject_to_change", Pattern: re(`prices?[^.]{0,40}?(?:subject to change|change|changed|modified) without (?:prior )?notice`)},
				{Name: "change_any_time", Pattern: re(`(?:change|modify|adjust) (?:our |the |its )?prices? at any time`)},
			},
		},
		{
			Clause: "data_selling",
			Rules: []Rule{
				{Name: "sell_information", Pattern: re(`\bsell (?:your |the )?(?:personal )?(?:information|data)`)},
				{Name: "sale_of_information", Pattern: re(`sale of (?:your )?personal (?:information|data)`)},
			},
			Unless: []*regexp.Regexp{
				re(`(?:do|does|will) not sell (?:your |the )?(?:personal )?(?:information|data)`),
				re(`never sell`),
			},
		},
		{
			Clause: "third_party_sharing",
			Rules: []Rule{
				{Name: "share_for_marketing", Pattern: re(`(?:share|disclose|provide|sell)[^.]{0,40}?(?:information|data)[^.]{0,40}?third[- ]part(?:y|ies)[^.]{0,60}?(?:marketing|advertising|own purposes)`)},
				{Name: "partners_marketing", Pattern: re(`(?:marketing|advertising) partners[^.]{0,40}?(?:share|receive|access)`)},
			},
			Unless: []*regexp.Regexp{
				re(`(?:do|does|will) not (?:share|disclose) (?:your |the )?(?:personal )?(?:information|data) with third[- ]parties`),
			},
		},
		{
			Clause: "broad_data_collection",
			Rules: []Rule{
				{Name: "sensitive_signals", Pattern: re(`(?:collect|gather|obtain)[^.]{0,60}?(?:precise )?(?:geolocation|location data|browsing history|device identifiers|contact lists?|biometric)`)},
			},
		},
		{
			Clause: "indefinite_data_retention",
			Rules: []Rule{
				{Name: "retain_indefinitely", Pattern: re(`(?:retain|store|keep)[^.]{0,60}?(?:indefinitely|as long as we (?:deem|see fit|consider))`)},
			},
		},
		{
			Clause: "risk_of_loss_on_buyer",
			Rules: []Rule{
				{Name: "passes_on_carrier", Pattern: re(`(?:risk of loss|title)[^.]{0,60}?pass(?:es)? to (?:you|the buyer|the customer|the purchaser)[^.]{0,60}?(?:upon|on|when)[^.]{0,30}?carrier`)},
				{Name: "not_responsible_lost", Pattern: re(`(?:not|no longer) (?:be )?responsible for (?:any )?(?:lost|stolen|damaged|missing) (?:packages|shipments|items|parcels|orders)`)},
			},
		},
		{
			Clause: "no_delivery_guarantee",
			Rules: []Rule{
				{Name: "estimates", Pattern: re(`delivery (?:dates?|times?|estimates?) (?:are|is) (?:only )?(?:estimates?|approximate|not guaranteed)`)},
				{Name: "no_guarantee", Pattern: re(`(?:do not|cannot|does not|can not) guarantee (?:delivery|shipping) (?:dates?|times?)?`)},
			},
		},
		{
			Clause: "shipping_fees_non_refundable",
			Rules: []Rule{
				{Name: "non_refundable", Pattern: re(`shipping (?:fees|charges|costs) (?:are |is )?(?:non[- ]?refundable|not refundable)`)},
				{Name: "not_refunded", Pattern: re(`(?:original )?shipping (?:fees|charges|costs)? ?(?:are|is|will) not (?:be )?refunded`)},
			},
		},
	}
}

// DefaultPositives lists consumer-favorable language reported in the summary.
func DefaultPositives() []PositiveRule {
	fixed := func(desc string) func([]string) (string, bool) {
		return func([]string) (string, bool) { return desc, true }
	}
	return []PositiveRule{
		{Pattern: re(`\bfree returns?\b`), Describe: fixed("Free returns")},
		{Pattern: re(`free return shipping|prepaid return (?:label|shipping)`), Describe: fixed("Free return shipping")},
		{
			Pattern: returnWithin,
			Describe: func(m []string) (string, bool) {
				n, ok := ParseDays(m[1])
				if !ok || n < 30 || processingTime.MatchString(m[0]) {
					return "", false
				}
				return fmt.Sprintf("%d-day return window", n), true
			},
		},
		{
			Pattern: re(count + `[- ]?days? (?:return|refund) (?:window|policy|period)`),
			Describe: func(m []string) (string, bool) {
				n, ok := ParseDays(m[1])
				if !ok || n < 30 {
					return "", false
				}
				return fmt.Sprintf("%d-day return window", n), true
			},
		},
		{Pattern: re(`\bfull refund`), Describe: fixed("Full refund")},
		{Pattern: re(`refund(?:s|ed)?[^.]{0,40}?original (?:form of )?payment`), Describe: fixed("Refund to original payment method")},
		{Pattern: re(`\bfree (?:standard )?shipping\b`), Describe: fixed("Free shipping")},
		{Pattern: re(`\bfree exchanges?\b`), Describe: fixed("Free exchanges")},
		{Pattern: re(`money[- ]back guarantee`), Describe: fixed("Money-back guarantee")},
		{Pattern: re(`\bno restocking fees?`), Describe: fixed("No restocking fees")},
		{Pattern: re(`(?:do|does|will) not sell (?:your |the )?(?:personal )?(?:information|data)|never sell`), Describe: fixed("Does not sell personal information")},
		{Pattern: re(`opt[- ]out of (?:this |the )?(?:agreement to )?arbitrat`), Describe: fixed("Arbitration opt-out available")},
	}
}
