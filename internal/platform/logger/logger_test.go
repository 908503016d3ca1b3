package logger

import "testing"

func TestSanitizeKVsRedactsSecretsAndEmails(t *testing.T) {
	redactOnce.Do(func() { redactionEnabled = true })

	out := sanitizeKVs([]interface{}{
		"email", "someone@example.com",
		"postgres_password", "hunter2",
		"model_id", uint(7),
	})
	if len(out) != 6 {
		t.Fatalf("len: want=6 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("email: want redacted got=%v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("password: want redacted got=%v", out[3])
	}
	if out[5] != uint(7) {
		t.Fatalf("model_id: want passthrough got=%v", out[5])
	}
}

func TestSanitizeKVsHashesUserIDs(t *testing.T) {
	redactOnce.Do(func() { redactionEnabled = true })

	out := sanitizeKVs([]interface{}{"uploaded_by_id", 42})
	got, ok := out[1].(string)
	if !ok || len(got) != len("hash:")+12 {
		t.Fatalf("uploaded_by_id: want hash got=%v", out[1])
	}
}

func TestNewTestModeIsNop(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("discarded", "k", "v")
	l.With("repo", "x").Debug("discarded")
	l.Sync()
}
