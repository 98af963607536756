package version

import "testing"

func TestInfo(t *testing.T) {
	bi := Info("aardsync-api")
	if bi.Service != "aardsync-api" || bi.Version == "" || bi.Commit == "" || bi.Date == "" {
		t.Fatalf("Info = %+v", bi)
	}
	if UserAgent() != "aardsync/"+bi.Version {
		t.Fatalf("UserAgent = %q", UserAgent())
	}
}
