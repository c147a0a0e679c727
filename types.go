package main

import (
	"time"
)

// State is the position of a user in the menu flow.
type State string

const (
	StateGreeting     State = "greeting"
	StateRoleSelected State = "role_selected"
	StateHelpMenu     State = "help_menu"
	StateHelpSubmenu  State = "help_submenu"
)

// Role is the category a user declared. Its value is the menu digit that selects it.
type Role string

const (
	RoleNone        Role = ""
	RoleTeacher     Role = "1"
	RoleParent      Role = "2"
	RoleStudent     Role = "3"
	RoleVolunteer   Role = "4"
	RoleSponsor     Role = "5"
	RoleSchoolAdmin Role = "6"
)

var roleNames = map[Role]string{
	RoleTeacher:     "teacher",
	RoleParent:      "parent",
	RoleStudent:     "student",
	RoleVolunteer:   "volunteer",
	RoleSponsor:     "sponsor",
	RoleSchoolAdmin: "school_admin",
}

// String returns the catalog name of the role ("parent", "school_admin", ...).
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "none"
}

// roleByName maps a catalog response key to a role. "default" maps to RoleNone.
func roleByName(name string) (Role, bool) {
	if name == "default" {
		return RoleNone, true
	}
	for role, n := range roleNames {
		if n == name {
			return role, true
		}
	}
	return RoleNone, false
}

// MenuKey is a navigable menu option.
type MenuKey string

const (
	KeyUnrecognized MenuKey = ""
	KeyTeacher      MenuKey = "1"
	KeyParent       MenuKey = "2"
	KeyStudent      MenuKey = "3"
	KeyVolunteer    MenuKey = "4"
	KeySponsor      MenuKey = "5"
	KeySchoolAdmin  MenuKey = "6"
	KeyHelp         MenuKey = "7"
	KeyMission      MenuKey = "11"
	KeyInitiatives  MenuKey = "12"
	KeyServices     MenuKey = "13"
	KeyHumanAgent   MenuKey = "14"
)

// parseMenuKey maps input to a menu key, or KeyUnrecognized.
func parseMenuKey(s string) MenuKey {
	switch key := MenuKey(s); key {
	case KeyTeacher, KeyParent, KeyStudent, KeyVolunteer, KeySponsor, KeySchoolAdmin,
		KeyHelp, KeyMission, KeyInitiatives, KeyServices, KeyHumanAgent:
		return key
	}
	return KeyUnrecognized
}

func (k MenuKey) isRole() bool {
	switch k {
	case KeyTeacher, KeyParent, KeyStudent, KeyVolunteer, KeySponsor, KeySchoolAdmin:
		return true
	}
	return false
}

func (k MenuKey) isSubmenu() bool {
	switch k {
	case KeyMission, KeyInitiatives, KeyServices, KeyHumanAgent:
		return true
	}
	return false
}

// Session is one user's conversational state, passed and returned by value.
type Session struct {
	UserID         string    `json:"user_id"`
	State          State     `json:"state"`
	Role           Role      `json:"role,omitempty"`
	LastIntent     string    `json:"last_intent,omitempty"`
	LastConfidence *float64  `json:"last_confidence,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSession returns the state a user starts with on first contact.
func NewSession(userID string) Session {
	return Session{
		UserID: userID,
		State:  StateGreeting,
	}
}

// clone copies the session so the caller does not share LastConfidence.
func (s Session) clone() Session {
	if s.LastConfidence != nil {
		c := *s.LastConfidence
		s.LastConfidence = &c
	}
	return s
}

// Classification is the classifier's verdict for one text.
type Classification struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Request/Response structures
type ClassifyRequest struct {
	Text string `json:"text" form:"text" query:"text"`
	Role string `json:"role" form:"role" query:"role"`
}

type ClassifyResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Normalized string  `json:"normalized"`
	Reply      string  `json:"reply,omitempty"`
}

type ReloadResponse struct {
	Message    string    `json:"message"`
	Intents    int       `json:"intents"`
	Source     string    `json:"source"`
	ReloadedAt time.Time `json:"reloaded_at"`
}
