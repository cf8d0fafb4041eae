package policy

import (
	"fmt"

	"cayo/models"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// Objects and actions guarded by the API.
const (
	Accounts     = "accounts"
	Players      = "players"
	Transactions = "transactions"
	Bets         = "bets"
	Reports      = "reports"
	Wallet       = "wallet"

	Read   = "read"
	Write  = "write"
	Create = "create"
	Update = "update"
	Settle = "settle"
)

var agentGrants = [][2]string{
	{Accounts, Read},
	{Accounts, Update},
	{Players, Read},
	{Players, Write},
	{Transactions, Read},
	{Transactions, Write},
	{Bets, Read},
	{Bets, Write},
	{Reports, Read},
}

// Policy maps a role to the permissions it holds. Record-level visibility is
// the scope filter's job; this only answers whether a role may call an
// operation at all.
type Policy struct {
	enforcer *casbin.Enforcer
}

func New() (*Policy, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("policy model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("policy enforcer: %w", err)
	}

	rules := [][]string{{string(models.RoleAdmin), "*", "*"}}
	for _, g := range agentGrants {
		rules = append(rules, []string{string(models.RoleAgent), g[0], g[1]})
	}
	if _, err := e.AddPolicies(rules); err != nil {
		return nil, fmt.Errorf("policy rules: %w", err)
	}
	return &Policy{enforcer: e}, nil
}

func MustNew() *Policy {
	p, err := New()
	if err != nil {
		panic(err)
	}
	return p
}

// Can reports whether role may perform act on obj. Enforcer errors deny.
func (p *Policy) Can(role models.Role, obj, act string) bool {
	if !role.Valid() {
		return false
	}
	ok, err := p.enforcer.Enforce(string(role), obj, act)
	return err == nil && ok
}
