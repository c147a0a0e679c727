package main

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// smartPathThreshold gates the classifier result before contextual lookup.
const smartPathThreshold = 0.4

// controlWords always take the structured path.
var controlWords = map[string]bool{
	"back":  true,
	"menu":  true,
	"start": true,
	"main":  true,
	"help":  true,
}

// textSynonyms maps typed words to the menu option they stand for.
var textSynonyms = map[string]MenuKey{
	"teacher":      KeyTeacher,
	"parent":       KeyParent,
	"guardian":     KeyParent,
	"student":      KeyStudent,
	"volunteer":    KeyVolunteer,
	"sponsor":      KeySponsor,
	"admin":        KeySchoolAdmin,
	"school admin": KeySchoolAdmin,
	"mission":      KeyMission,
	"vision":       KeyMission,
	"values":       KeyMission,
	"initiatives":  KeyInitiatives,
	"services":     KeyServices,
	"human":        KeyHumanAgent,
	"agent":        KeyHumanAgent,
}

// Engine decides the reply for one turn. It does no I/O and holds no
// per-user state, so one Engine serves every user concurrently.
type Engine struct {
	classifier IntentClassifier
	responses  *ResponseTable
}

func NewEngine(classifier IntentClassifier, responses *ResponseTable) *Engine {
	return &Engine{
		classifier: classifier,
		responses:  responses,
	}
}

// NewCatalogEngine builds the keyword classifier and response table over catalog.
func NewCatalogEngine(catalog *Catalog) *Engine {
	return NewEngine(NewKeywordClassifier(catalog), NewResponseTable(catalog))
}

// Classify exposes the engine's classifier.
func (e *Engine) Classify(text string) Classification {
	return e.classifier.Classify(text)
}

// HandleTurn returns the reply to text and the session to persist.
// Free text above the smart path threshold gets a contextual reply; menu
// digits and control words never reach the classifier.
func (e *Engine) HandleTurn(session Session, text string) (string, Session) {
	session = session.clone()
	if session.State == "" {
		session.State = StateGreeting
	}

	msg := menuInput(text)

	if !skipsClassification(msg) {
		result := e.classifier.Classify(text)
		if result.Confidence > smartPathThreshold {
			if reply, ok := e.responses.ResolveContextual(result.Intent, result.Confidence, session.Role); ok {
				confidence := result.Confidence
				session.LastIntent = result.Intent
				session.LastConfidence = &confidence
				return reply, session
			}
		}
	}

	return e.navigate(session, msg)
}

// HandleStateless answers without any session, for when the store is
// down. Only menu navigation applies; unknown input gets the greeting.
func (e *Engine) HandleStateless(text string) string {
	reply, _ := e.navigate(NewSession(""), menuInput(text))
	return reply
}

// menuInput folds text for menu matching. NFKC maps full-width digits and
// letters to ASCII.
func menuInput(text string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(text)))
}

// navigate applies the menu rules in order; the first match wins.
func (e *Engine) navigate(session Session, msg string) (string, Session) {
	switch msg {
	case "back":
		if session.State == StateHelpSubmenu {
			session.State = StateHelpMenu
			return e.responses.Menu(KeyHelp), session
		}
		session.State = StateGreeting
		return e.responses.Greeting(), session
	case "menu", "start", "main":
		session.State = StateGreeting
		return e.responses.Greeting(), session
	case "help", string(KeyHelp):
		session.State = StateHelpMenu
		return e.responses.Menu(KeyHelp), session
	}

	key := parseMenuKey(msg)
	if key == KeyUnrecognized {
		if mapped, ok := textSynonyms[msg]; ok {
			key = mapped
		}
	}

	switch {
	case key.isRole():
		session.State = StateRoleSelected
		session.Role = Role(key)
		return e.responses.Menu(key), session
	case key.isSubmenu():
		session.State = StateHelpSubmenu
		return e.responses.Menu(key), session
	}

	if session.Role != RoleNone {
		if help, ok := e.responses.RoleHelp(session.Role); ok {
			return help, session
		}
	}

	session.State = StateGreeting
	return e.responses.Greeting(), session
}

// skipsClassification reports whether msg is a menu digit string or a control word.
func skipsClassification(msg string) bool {
	if controlWords[msg] {
		return true
	}
	if msg == "" {
		return false
	}
	for _, r := range msg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
