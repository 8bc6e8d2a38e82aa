// Package pvoutput uploads inverter readings to pvoutput.org.
package pvoutput

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"

	"github.com/brokenrelease/samilstatus/samil"
)

const DefaultStatusURL = "https://pvoutput.org/service/r2/addstatus.jsp"

var ErrOffline = errors.New("no reading to upload, inverter offline")

type Config struct {
	StatusURL string
	APIKey    string
	SystemID  string
}

type Client struct {
	cfg    Config
	client *resty.Client
	log    *logrus.Logger
}

func NewClient(cfg Config, log *logrus.Logger) *Client {
	if cfg.StatusURL == "" {
		cfg.StatusURL = DefaultStatusURL
	}
	return &Client{
		cfg:    cfg,
		client: resty.New().SetTimeout(10 * time.Second),
		log:    log,
	}
}

// Status maps a reading to addstatus parameters: energy generated today
// (v1, Wh), power (v2, W), temperature (v5, C) and panel voltage (v6, V).
func Status(r *samil.Result) map[string]string {
	t := r.Time.Local()
	data := map[string]string{
		"d": t.Format("20060102"),
		"t": t.Format("15:04"),
	}

	params := []struct {
		key, label string
	}{
		{"v1", samil.LabelTodayEnergy},
		{"v2", samil.LabelPower},
		{"v5", samil.LabelTemperature},
		{"v6", samil.LabelPanel1Volts},
	}
	for _, p := range params {
		if v, ok := r.Value(p.label); ok {
			data[p.key] = strconv.FormatFloat(v.Value, 'f', 1, 64)
		}
	}
	return data
}

// Upload posts one online reading.
func (c *Client) Upload(r *samil.Result) error {
	if !r.Online {
		return ErrOffline
	}

	data := Status(r)
	c.log.Debugf("POSTing to URL: %s", c.cfg.StatusURL)
	c.log.Debugf("POSTing data: %v", data)

	resp, err := c.client.R().
		SetHeader("X-Pvoutput-Apikey", c.cfg.APIKey).
		SetHeader("X-Pvoutput-SystemId", c.cfg.SystemID).
		SetFormData(data).
		Post(c.cfg.StatusURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("pvoutput: %s: %s", resp.Status(), resp.String())
	}
	return nil
}
