package policy

// Actions named in the default policy
const (
	ActionDashboardView        = "dashboard.view"
	ActionRoleRequest          = "role.request"
	ActionRoleReview           = "role.review"
	ActionMemberManage         = "member.manage"
	ActionMemberModify         = "member.modify"
	ActionPartnerRequestSubmit = "partner_request.submit"
	ActionPartnerRequestReview = "partner_request.review"
	ActionPartnerManage        = "partner.manage"
	ActionEventManage          = "event.manage"
	ActionEventInterest        = "event.interest"
	ActionConsoleView          = "console.view"
)

// Conclusion is the outcome of one or more statements
type Conclusion int

const (
	Unset Conclusion = iota
	Allow
	Deny
)

// ParseConclusion maps a statement effect to a conclusion
func ParseConclusion(s string) Conclusion {
	switch s {
	case "allow":
		return Allow
	case "deny":
		return Deny
	default:
		return Unset
	}
}

func (c Conclusion) String() string {
	switch c {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "unset"
	}
}

// Or merges two conclusions; deny always wins over allow
func (c Conclusion) Or(other Conclusion) Conclusion {
	if c == Deny || other == Deny {
		return Deny
	}
	if c == Allow || other == Allow {
		return Allow
	}
	return Unset
}

// RequestContext is what conditions can Load from, using dot notation
// ("requester.account_level", "this.status", "params.target_id").
type RequestContext struct {
	Requester any            `json:"requester"`
	This      any            `json:"this"`
	Params    map[string]any `json:"params"`
}

// Document is a versioned set of policies
type Document struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Versions    map[string]Policy `json:"versions"`
}

// Policy holds the statements per action. Statements under "*" apply to
// every action. Defaults decide actions where no statement matched.
type Policy struct {
	Statements map[string][]Stmt `json:"statements"`
	Defaults   map[string]bool   `json:"defaults"`
}

type Stmt struct {
	Effect    string `json:"effect"`
	Condition Expr   `json:"condition"`
}

type Expr struct {
	Operator string `json:"op"`
	Args     []Expr `json:"args"`
	Const    any    `json:"const,omitempty"`
}

type EvalResult struct {
	Operator string       `json:"op"`
	Args     []EvalResult `json:"args"`
	Result   any          `json:"result"`
	Error    string       `json:"error"`
}
