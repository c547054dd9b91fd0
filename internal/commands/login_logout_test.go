package commands_test

import (
	"os"
	"strings"
	"testing"

	"tasker/internal/commands"
	"tasker/internal/exitcode"
	"tasker/internal/testutil"
)

func TestLoginCommand_Flags(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "secret")
	svc.AddTask("Buy milk", false)
	env := newTestEnv(t, svc, false, false)

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, env, []string{"--username", "alice", "--password", "secret"})

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "logged in successfully\n[logout] [add]\n   1  [ ] Buy milk\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}

	token, ok := env.store.Token()
	if !ok || token != "token-alice" {
		t.Errorf("expected stored token, got %q (present=%v)", token, ok)
	}
	if !env.Session.Authenticated() {
		t.Error("environment should switch to the new session")
	}
}

func TestLoginCommand_WrongPassword(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "secret")
	env := newTestEnv(t, svc, false, false)

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, env, []string{"-u", "alice", "-p", "nope"})

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: wrong username or password\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if env.store.IsAuthenticated() {
		t.Error("nothing should be stored after a failed login")
	}
}

func TestLoginCommand_Prompts(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "secret")
	env := newTestEnv(t, svc, false, false)
	env.In = strings.NewReader("alice\nsecret\n")

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, env, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "username: password: " {
		t.Errorf("unexpected prompts: %q", stderr)
	}
	if !strings.HasPrefix(stdout, "logged in successfully\n") {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}

func TestLoginCommand_ConfigCredentials(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "secret")
	env := newTestEnv(t, svc, false, true)
	env.Config.Username = "alice"
	env.Config.Password = "secret"

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, env, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no prompts, got %q", stderr)
	}
	// Quiet drops the notification but the list is still shown
	if stdout != "[logout] [add]\nno tasks\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}

func TestLoginCommand_MissingPassword(t *testing.T) {
	svc := testutil.NewFakeService()
	env := newTestEnv(t, svc, false, false)

	_, stderr, code := runCommand(t, &commands.LoginCmd{}, env, []string{"-u", "alice"})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasSuffix(stderr, "error: username and password required\n") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if len(svc.Calls()) != 0 {
		t.Errorf("expected no backend calls, got %v", svc.Calls())
	}
}

func TestLoginCommand_ReplacesExistingToken(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("bob", "hunter2")
	env := newTestEnv(t, svc, true, false)

	_, _, code := runCommand(t, &commands.LoginCmd{}, env, []string{"-u", "bob", "-p", "hunter2"})

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if token, _ := env.store.Token(); token != "token-bob" {
		t.Errorf("expected token-bob, got %q", token)
	}
}

func TestLogoutCommand(t *testing.T) {
	env := newTestEnv(t, testutil.NewFakeService(), true, false)

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, env, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "logged out\n[login]\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
	if _, err := os.Stat(env.store.Path()); !os.IsNotExist(err) {
		t.Error("token file should be removed")
	}
	if env.Session.Authenticated() {
		t.Error("environment should be anonymous after logout")
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	env := newTestEnv(t, testutil.NewFakeService(), false, false)

	stdout, _, code := runCommand(t, &commands.LogoutCmd{}, env, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "not logged in\n[login]\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}

func TestLogoutCommand_Quiet(t *testing.T) {
	env := newTestEnv(t, testutil.NewFakeService(), true, true)

	stdout, _, code := runCommand(t, &commands.LogoutCmd{}, env, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "[login]\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}
