package auth

// Role names a permission group accepted by the authorization gate.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleFounder  Role = "founder"
	RoleInvestor Role = "investor"
	RoleCurious  Role = "curious"
)

// RoleFlags is the fixed record of independent role booleans carried inside
// a token. The flags are not a hierarchy; the admin bypass lives in the
// authorization gate, not here.
type RoleFlags struct {
	Founder  bool `json:"founder"`
	Admin    bool `json:"admin"`
	Investor bool `json:"investor"`
	Curious  bool `json:"curious"`
}

// Identity is the resolved caller of one request. The zero value is the
// anonymous identity; Authenticated is only set by the credential verifier
// and the token codec.
type Identity struct {
	Authenticated   bool
	UserID          string
	IsFounder       bool
	IsAdmin         bool
	IsInvestor      bool
	IsCuriousPerson bool
}

// Flags returns the role record embedded in tokens issued for id.
func (id Identity) Flags() RoleFlags {
	return RoleFlags{
		Founder:  id.IsFounder,
		Admin:    id.IsAdmin,
		Investor: id.IsInvestor,
		Curious:  id.IsCuriousPerson,
	}
}

// roleChecks is the closed set of recognized roles mapped to their identity
// accessors. Role names outside this map never authorize anything.
var roleChecks = map[Role]func(Identity) bool{
	RoleAdmin:    func(id Identity) bool { return id.IsAdmin },
	RoleFounder:  func(id Identity) bool { return id.IsFounder },
	RoleInvestor: func(id Identity) bool { return id.IsInvestor },
	RoleCurious:  func(id Identity) bool { return id.IsCuriousPerson },
}

func roleNames(rs []Role) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}
