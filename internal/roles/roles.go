// Package roles defines the totally ordered moderation role ladder and the
// static permission table gating every privileged command.
package roles

// Role is a stored moderation rank. The zero value means "no role assigned"
// and never satisfies any requirement.
type Role string

const (
	None    Role = ""
	Seeker  Role = "seeker"
	Mod     Role = "moderator"
	Admin   Role = "admin"
	Head    Role = "head_admin"
	Creator Role = "creator"
)

// Order is ascending by rank.
var Order = []Role{Seeker, Mod, Admin, Head, Creator}

var rank = func() map[Role]int {
	m := make(map[Role]int, len(Order))
	for i, r := range Order {
		m[r] = i
	}
	return m
}()

var titles = map[Role]string{
	Creator: "Создатель",
	Head:    "Руководитель Админов",
	Admin:   "Админ",
	Mod:     "Модератор",
	Seeker:  "Ищет людей",
}

func Parse(s string) (Role, bool) {
	r := Role(s)
	_, ok := rank[r]
	return r, ok
}

func (r Role) Rank() int {
	if i, ok := rank[r]; ok {
		return i
	}
	return -1
}

func (r Role) Title() string {
	if t, ok := titles[r]; ok {
		return t
	}
	return string(r)
}

// AtLeast reports whether role meets the required rank. A missing role never
// satisfies any requirement.
func AtLeast(role, required Role) bool {
	if role == None {
		return false
	}
	return role.Rank() >= required.Rank()
}

// Privileged actions. The mapping of action to minimum rank is fixed and not
// overridable at runtime.
const (
	ActionInvite    = "invite"
	ActionWarn      = "warn"
	ActionMute      = "mute"
	ActionUnmute    = "unmute"
	ActionBan       = "ban"
	ActionUnban     = "unban"
	ActionKick      = "kick"
	ActionSetRole   = "setrole"
	ActionDelRole   = "delrole"
	ActionAutoMute  = "automute"
	ActionSetRules  = "setrules"
	ActionSetForum  = "setforum"
	ActionSettings  = "settings"
	ActionInactive  = "inactive"
	ActionToMain    = "to_main"
	ActionWhitelist = "whitelist"
)

var minRank = map[string]Role{
	ActionInvite:    Seeker,
	ActionWarn:      Mod,
	ActionMute:      Mod,
	ActionUnmute:    Mod,
	ActionToMain:    Mod,
	ActionBan:       Admin,
	ActionUnban:     Admin,
	ActionKick:      Head,
	ActionSetRole:   Head,
	ActionDelRole:   Head,
	ActionAutoMute:  Head,
	ActionSetRules:  Head,
	ActionSetForum:  Head,
	ActionSettings:  Head,
	ActionInactive:  Head,
	ActionWhitelist: Head,
}

// CanUse reports whether the role is allowed to perform the action. Unknown
// actions are denied.
func CanUse(role Role, action string) bool {
	required, ok := minRank[action]
	if !ok {
		return false
	}
	return AtLeast(role, required)
}
