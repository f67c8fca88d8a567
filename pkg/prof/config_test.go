package prof

import "testing"

func TestConfig_IsZero(t *testing.T) {
	if !(Config{}).IsZero() {
		t.Error("empty Config is not zero")
	}
	if (Config{HTTP: "localhost:6060"}).IsZero() {
		t.Error("Config with HTTP reported zero")
	}
}

func TestStartWithoutProfiles(t *testing.T) {
	stop, err := Start(Config{})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	stop()
	if Active() {
		t.Error("Active() = true after stop")
	}
}
