package privileges

import (
	"bytes"
	"log/slog"
	"os/user"
	"strconv"
	"strings"
	"testing"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestResolveAsEmptyRequest(t *testing.T) {
	var buf bytes.Buffer
	id, err := ResolveAs("", "", 0, testLogger(&buf))
	if err != nil {
		t.Fatalf("ResolveAs: %v", err)
	}
	if !id.Unchanged() {
		t.Fatalf("identity = %+v, want unchanged", id)
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}

func TestResolveAsUnprivilegedClearsRequest(t *testing.T) {
	var buf bytes.Buffer
	id, err := ResolveAs("root", "root", 1000, testLogger(&buf))
	if err != nil {
		t.Fatalf("ResolveAs: %v", err)
	}
	if !id.Unchanged() {
		t.Fatalf("identity = %+v, want unchanged for non-root caller", id)
	}
	if !strings.Contains(buf.String(), "ignoring user/group") {
		t.Fatalf("expected warning, got: %s", buf.String())
	}
}

func TestResolveAsUnknownUserFatal(t *testing.T) {
	var buf bytes.Buffer
	_, err := ResolveAs("no-such-user-xyz", "", 0, testLogger(&buf))
	if err == nil {
		t.Fatal("expected error for unknown user")
	}
	if !strings.Contains(err.Error(), "no-such-user-xyz") {
		t.Fatalf("error does not name the user: %v", err)
	}
}

func TestResolveAsUnknownGroupFatal(t *testing.T) {
	var buf bytes.Buffer
	_, err := ResolveAs("", "no-such-group-xyz", 0, testLogger(&buf))
	if err == nil {
		t.Fatal("expected error for unknown group")
	}
}

func TestResolveAsCurrentUser(t *testing.T) {
	cur, err := user.Current()
	if err != nil {
		t.Skipf("cannot determine current user: %v", err)
	}
	wantUID, err := strconv.Atoi(cur.Uid)
	if err != nil {
		t.Skipf("non-numeric uid: %s", cur.Uid)
	}

	var buf bytes.Buffer
	id, err := ResolveAs(cur.Username, "", 0, testLogger(&buf))
	if err != nil {
		t.Fatalf("ResolveAs(%q): %v", cur.Username, err)
	}
	if !id.HasUID || id.UID != wantUID {
		t.Fatalf("identity = %+v, want uid %d", id, wantUID)
	}
	if id.HasGID {
		t.Fatalf("identity = %+v, want no gid", id)
	}
}

func TestApplyUnchangedIsNoop(t *testing.T) {
	var buf bytes.Buffer
	if err := Apply(Identity{}, testLogger(&buf)); err != nil {
		t.Fatalf("Apply(unchanged) = %v, want nil", err)
	}
}
