package complaint

import (
	"complainthub/backend/internal/models"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

type Action string

const (
	ActionCreate        Action = "create"
	ActionListOwn       Action = "listOwn"
	ActionListAll       Action = "listAll"
	ActionView          Action = "view"
	ActionEditContent   Action = "editContent"
	ActionManagerUpdate Action = "managerUpdate"
	ActionWithdraw      Action = "withdraw"
	ActionDelete        Action = "delete"
)

// Scopes narrow a capability to the complaints it applies to.
const (
	scopeAny        = "any"
	scopeOwn        = "own"
	scopeOwnPending = "own_pending"
)

const policyModel = `
[request_definition]
r = sub, act, own, pending

[policy_definition]
p = sub, act, scope

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.act == p.act && (p.scope == "any" || (p.scope == "own" && r.own == "yes") || (p.scope == "own_pending" && r.own == "yes" && r.pending == "yes"))
`

// DefaultCapabilities is the role/action table. Adding a role means adding its rows here.
var DefaultCapabilities = [][]string{
	{string(models.RoleSubmitter), string(ActionCreate), scopeAny},
	{string(models.RoleSubmitter), string(ActionListOwn), scopeAny},
	{string(models.RoleSubmitter), string(ActionView), scopeOwn},
	{string(models.RoleSubmitter), string(ActionEditContent), scopeOwnPending},
	{string(models.RoleSubmitter), string(ActionWithdraw), scopeOwnPending},
	{string(models.RoleManager), string(ActionListAll), scopeAny},
	{string(models.RoleManager), string(ActionView), scopeAny},
	{string(models.RoleManager), string(ActionManagerUpdate), scopeAny},
	{string(models.RoleManager), string(ActionDelete), scopeAny},
}

// Policy decides whether an actor may perform an action on a complaint. It never
// touches the store.
type Policy struct {
	enforcer *casbin.Enforcer
}

// NewPolicy builds a Policy from capability rows of the form {role, action, scope}.
func NewPolicy(capabilities [][]string) (*Policy, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("policy: parse model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("policy: build enforcer: %w", err)
	}
	if len(capabilities) > 0 {
		if _, err := e.AddPolicies(capabilities); err != nil {
			return nil, fmt.Errorf("policy: load capabilities: %w", err)
		}
	}
	return &Policy{enforcer: e}, nil
}

// MustDefaultPolicy returns the Policy for DefaultCapabilities and panics on failure.
func MustDefaultPolicy() *Policy {
	p, err := NewPolicy(DefaultCapabilities)
	if err != nil {
		panic(err)
	}
	return p
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// CanPerform reports whether actor may perform action on complaint. complaint may be
// nil for actions that do not target a record (create, listing).
func (p *Policy) CanPerform(actor models.Actor, complaint *models.Complaint, action Action) bool {
	own, pending := false, false
	if complaint != nil {
		own = actor.ID != "" && complaint.SubmitterID == actor.ID
		pending = complaint.Status == models.StatusPending
	}
	return p.enforce(actor.Role, action, own, pending)
}

// RoleMay reports whether actor's role holds action at all, in the most permissive
// context. A false answer is an authorization failure regardless of the record.
func (p *Policy) RoleMay(actor models.Actor, action Action) bool {
	return p.enforce(actor.Role, action, true, true)
}

func (p *Policy) enforce(role models.Role, action Action, own, pending bool) bool {
	ok, err := p.enforcer.Enforce(string(role), string(action), yesNo(own), yesNo(pending))
	return err == nil && ok
}
