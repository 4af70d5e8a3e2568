package filters

import "testing"

func rule(t Type, value string, mutate ...func(*Rule)) Rule {
	r := Rule{ID: "r-" + value, Type: t, Value: value, Enabled: true}
	for _, m := range mutate {
		m(&r)
	}
	return r
}

func TestEvaluateKeywordCaseInsensitive(t *testing.T) {
	rules := []Rule{rule(Keyword, "spam")}
	f := Fields{Comment: "This is SPAM content"}

	got := Evaluate(f, rules, "g")
	if got == nil {
		t.Fatal("expected case-insensitive keyword match")
	}
	if got.Value != "spam" {
		t.Errorf("matched wrong rule: %+v", got)
	}
}

func TestEvaluateKeywordCaseSensitive(t *testing.T) {
	rules := []Rule{rule(Keyword, "spam", func(r *Rule) { r.CaseSensitive = true })}

	if Evaluate(Fields{Comment: "This is SPAM content"}, rules, "g") != nil {
		t.Error("case-sensitive rule should not match different case")
	}
	if Evaluate(Fields{Comment: "This is spam content"}, rules, "g") == nil {
		t.Error("case-sensitive rule should match exact case")
	}
}

func TestEvaluateDisabledNeverMatches(t *testing.T) {
	rules := []Rule{rule(Keyword, "anything", func(r *Rule) { r.Enabled = false })}

	if got := Evaluate(Fields{Comment: "anything at all"}, rules, "g"); got != nil {
		t.Errorf("disabled rule matched: %+v", got)
	}
}

func TestEvaluateBoardScope(t *testing.T) {
	scoped := rule(Keyword, "topic", func(r *Rule) { r.Boards = []string{"a", "b"} })
	rules := []Rule{scoped}
	f := Fields{Comment: "on topic"}

	if Evaluate(f, rules, "a") == nil {
		t.Error("rule should apply on a board in its scope")
	}
	if Evaluate(f, rules, "g") != nil {
		t.Error("rule should not apply outside its scope")
	}

	// Empty scope means every board
	global := rule(Keyword, "topic")
	if Evaluate(f, []Rule{global}, "g") == nil {
		t.Error("empty scope should apply everywhere")
	}
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	rules := []Rule{
		rule(Keyword, "broad", func(r *Rule) { r.Seq = 0 }),
		rule(Keyword, "broad and narrow", func(r *Rule) { r.Seq = 1 }),
	}
	got := Evaluate(Fields{Comment: "broad and narrow text"}, rules, "g")
	if got == nil || got.Value != "broad" {
		t.Errorf("expected first rule in order to win, got %+v", got)
	}
}

func TestEvaluateSubject(t *testing.T) {
	rules := []Rule{rule(Subject, "general")}

	if Evaluate(Fields{Subject: "Desktop Thread General"}, rules, "g") == nil {
		t.Error("subject rule should match subject text")
	}
	if Evaluate(Fields{Comment: "general discussion"}, rules, "g") != nil {
		t.Error("subject rule must not match the body")
	}
}

func TestEvaluateTripcodeGuard(t *testing.T) {
	// A tripcode value without the leading ! can never match
	bare := rule(Tripcode, "Ep8pui8Vw2")
	if Evaluate(Fields{Trip: "!Ep8pui8Vw2"}, []Rule{bare}, "g") != nil {
		t.Error("tripcode value without leading ! must not match")
	}

	proper := rule(Tripcode, "!Ep8pui8Vw2")
	if Evaluate(Fields{Trip: "!Ep8pui8Vw2"}, []Rule{proper}, "g") == nil {
		t.Error("tripcode value with leading ! should match")
	}

	secure := rule(Tripcode, "!!abcdef")
	if Evaluate(Fields{Trip: "!!abcdef"}, []Rule{secure}, "g") == nil {
		t.Error("secure tripcode value should match")
	}
}

func TestEvaluateName(t *testing.T) {
	rules := []Rule{rule(Name, "bob")}

	cases := []struct {
		name string
		want bool
	}{
		{"bob", true},
		{"bob (OP)", true},
		{"bobby", false},
		{"alice", false},
	}
	for _, tc := range cases {
		got := Evaluate(Fields{Name: tc.name}, rules, "g") != nil
		if got != tc.want {
			t.Errorf("name %q: match = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEvaluateRegex(t *testing.T) {
	rules := []Rule{rule(Regex, `buy \w+ now`)}

	if Evaluate(Fields{Comment: "Buy GOLD now!"}, rules, "g") == nil {
		t.Error("regex should match case-insensitively by default")
	}

	// Regex runs over the joined fields, so a pattern can span them
	joined := []Rule{rule(Regex, `anon !secret`)}
	if Evaluate(Fields{Name: "anon", Trip: "!secret"}, joined, "g") == nil {
		t.Error("regex should see name and tripcode together")
	}
}

func TestEvaluateInvalidRegexIsSilentNonMatch(t *testing.T) {
	rules := []Rule{
		rule(Regex, `([unclosed`),
		rule(Keyword, "spam"),
	}
	got := Evaluate(Fields{Comment: "spam here"}, rules, "g")
	if got == nil || got.Type != Keyword {
		t.Errorf("invalid regex must not block later rules, got %+v", got)
	}
}

func TestEvaluateEmptyFields(t *testing.T) {
	rules := []Rule{
		rule(Keyword, "x"),
		rule(Subject, "x"),
		rule(Name, "x"),
		rule(Tripcode, "!x"),
		rule(Regex, "x"),
	}
	if got := Evaluate(Fields{}, rules, "g"); got != nil {
		t.Errorf("empty fields matched %+v", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(rule(Regex, `([unclosed`)); err == nil {
		t.Error("expected validation error for a bad pattern")
	}
	if err := Validate(rule(Regex, `good\d+`)); err != nil {
		t.Errorf("unexpected error for a valid pattern: %v", err)
	}
	// Non-regex types never fail validation
	if err := Validate(rule(Keyword, `([unclosed`)); err != nil {
		t.Errorf("keyword value must not be regex-validated: %v", err)
	}
}
