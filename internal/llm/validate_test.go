package llm

import "testing"

func TestSchemaCheck(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"question":"Q","answer":0}`, false},
		{"missing field", `{"question":"Q"}`, true},
		{"wrong type", `{"question":"Q","answer":"zero"}`, true},
		{"extra field", `{"question":"Q","answer":0,"hint":"h"}`, true},
		{"not json", `{"question":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := quizSchema.Check([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check(%s) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestSchemaCompileError(t *testing.T) {
	bad := &Schema{Name: "broken-test", Definition: map[string]any{"type": 12}}
	if err := bad.Check([]byte(`{}`)); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestMockChecksSchema(t *testing.T) {
	m := NewMock(Reply{Content: `{"answer":1}`})
	_, err := m.Generate(t.Context(), Request{Schema: quizSchema})
	if kind, ok := KindOf(err); !ok || kind != KindInvalid {
		t.Fatalf("got %v", err)
	}
	if len(m.Requests()) != 1 {
		t.Fatalf("requests = %d", len(m.Requests()))
	}
}
