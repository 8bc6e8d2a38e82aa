package pvoutput

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/brokenrelease/samilstatus/samil"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func reading() *samil.Result {
	return &samil.Result{
		Online: true,
		Time:   time.Date(2015, 1, 31, 11, 10, 0, 0, time.Local),
		Values: []samil.Value{
			{Label: samil.LabelTemperature, Unit: "C", Value: 50.400000000000006},
			{Label: samil.LabelPanel1Volts, Unit: "V", Value: 260.5},
			{Label: samil.LabelTodayEnergy, Unit: "Wh", Value: 7650},
			{Label: samil.LabelPower, Unit: "W", Value: 1009},
		},
	}
}

func TestStatus(t *testing.T) {
	got := Status(reading())
	want := map[string]string{
		"d": "20150131", "t": "11:10",
		"v1": "7650.0", "v2": "1009.0", "v5": "50.4", "v6": "260.5",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestUpload(t *testing.T) {
	var form map[string]string
	var apiKey, systemID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		apiKey = r.Header.Get("X-Pvoutput-Apikey")
		systemID = r.Header.Get("X-Pvoutput-SystemId")
		w.Write([]byte("OK 200: Added Status"))
	}))
	defer srv.Close()

	c := NewClient(Config{StatusURL: srv.URL, APIKey: "key", SystemID: "42"}, testLogger())
	if err := c.Upload(reading()); err != nil {
		t.Fatal(err)
	}
	if apiKey != "key" || systemID != "42" {
		t.Fatalf("headers = %q %q", apiKey, systemID)
	}
	if form["v2"] != "1009.0" || form["d"] != "20150131" {
		t.Fatalf("form = %v", form)
	}
}

func TestUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized 401: Invalid API Key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(Config{StatusURL: srv.URL}, testLogger())
	if err := c.Upload(reading()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestUploadOffline(t *testing.T) {
	c := NewClient(Config{}, testLogger())
	if c.cfg.StatusURL != DefaultStatusURL {
		t.Fatalf("status url = %s", c.cfg.StatusURL)
	}
	if err := c.Upload(&samil.Result{}); !errors.Is(err, ErrOffline) {
		t.Fatalf("err = %v", err)
	}
}
