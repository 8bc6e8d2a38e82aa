/*
samilstatus reads the current status of a Samil Power solar inverter over a
serial port and prints it, one value per line.

Usage:

	samilstatus [-v] -n name -d device -s serialnumber

Example usage:

	./samilstatus -n Samil1 -d /dev/ttyUSB0 -s S33114L133

Output:

	Samil1_DateStamp=20150131
	Samil1_TimeStamp=11:10
	Samil1_InverterOnline=1
	Samil1_Inverter_Temperature_C=50.40
	Samil1_Panel1_Volts_V=260.50
	...
	Samil1_Total_Energy_kWh=8172.30

When the inverter does not answer (at night it is switched off) only
Samil1_InverterOnline=0 is printed and the exit status is 1.

Readings can also be written to a Prometheus text file (-m), uploaded to
pvoutput.org and published over MQTT; see samilstatus.example.yaml.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/brokenrelease/samilstatus/config"
	"github.com/brokenrelease/samilstatus/metrics"
	"github.com/brokenrelease/samilstatus/mqtt"
	"github.com/brokenrelease/samilstatus/pvoutput"
	"github.com/brokenrelease/samilstatus/report"
	"github.com/brokenrelease/samilstatus/samil"
	"github.com/brokenrelease/samilstatus/serial"
)

const usage = `Usage:  %s [-v] -n name -d device -s serialnumber

-v is optional for verbose output whilst debugging
-n is the inverter name prefix (required: handy if you're connecting to more than one inverter)
-d is the serial port device name that the inverter is connected to (required)
-s is the inverter's serial number (required for inverter login)

Optional:
-c is a yaml config file
-f is the output format: lines (default), json or yaml
-m is a file to write Prometheus metrics to

Example: %s -v -n Samil1 -d /dev/ttyUSB0 -s S33114L133
`

var openPort = serial.OpenPort

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	prog := filepath.Base(args[0])

	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, usage, prog, prog)
	}

	verbose := fs.Bool("v", false, "Enable verbose output")
	name := fs.String("n", "", "Inverter name prefix")
	device := fs.String("d", "", "Serial port")
	serialNo := fs.String("s", "", "Inverter serial number")
	configFile := fs.String("c", "", "Config file")
	format := fs.String("f", "", "Output format")
	metricsFile := fs.String("m", "", "Prometheus metrics file")

	if err := fs.Parse(args[1:]); err != nil {
		return 1
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", prog, err)
		return 1
	}

	// command line wins over the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			cfg.Verbose = *verbose
		case "n":
			cfg.Name = *name
		case "d":
			cfg.Device = *device
		case "s":
			cfg.Serial = *serialNo
		case "f":
			cfg.Report.Format = *format
		case "m":
			cfg.Metrics.File = *metricsFile
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s %v\n", prog, err)
		fs.Usage()
		return 1
	}

	log := setupLogger(cfg.Log, cfg.Verbose, stderr)
	log.Debugf("Input arguments: verbose = %v, device = %q, serialnumber = %q", cfg.Verbose, cfg.Device, cfg.Serial)

	emitter, err := report.New(cfg.Report.Format)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", prog, err)
		return 1
	}

	port, err := openPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.SerialPort.Baud,
		ReadTimeout: cfg.SerialPort.ReadTimeout,
		Driver:      cfg.SerialPort.Driver,
	}, log)
	if err != nil {
		fmt.Fprintf(stderr, "unable to open %q\n", cfg.Device)
		log.Debug(err)
		return 1
	}

	session := samil.NewSession(port, samil.Config{
		SerialNo: cfg.Serial,
		Settle:   cfg.Session.Settle,
	}, log)
	res, err := session.Run(ctx)
	port.Close()
	if err != nil {
		log.Errorf("Error reading from inverter, %v", err)
		return 1
	}

	if err := emitter.Emit(stdout, cfg.Name, res); err != nil {
		log.Errorf("Error outputting data, %v", err)
		return 1
	}

	export(cfg, res, log)

	if !res.Online {
		return 1
	}
	return 0
}

// export hands the result to the optional sinks. Their failures are logged
// and do not change the exit status.
func export(cfg *config.Config, res *samil.Result, log *logrus.Logger) {
	if cfg.Metrics.File != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.File, cfg.Name, res); err != nil {
			log.Warnf("Error writing metrics, %v", err)
		}
	}

	if res.Online && cfg.PVOutput.APIKey != "" && cfg.PVOutput.SystemID != "" {
		pv := pvoutput.NewClient(pvoutput.Config{
			StatusURL: cfg.PVOutput.URL,
			APIKey:    cfg.PVOutput.APIKey,
			SystemID:  cfg.PVOutput.SystemID,
		}, log)
		if err := pv.Upload(res); err != nil {
			log.Warnf("Error uploading to pvoutput, %v", err)
		}
	}

	if cfg.MQTT.Broker != "" {
		pub, err := mqtt.Connect(mqtt.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
		}, cfg.Name, log)
		if err != nil {
			log.Warnf("Error connecting to MQTT broker, %v", err)
			return
		}
		defer pub.Close()
		if err := pub.Publish(res); err != nil {
			log.Warnf("Error publishing to MQTT, %v", err)
		}
	}
}

func setupLogger(cfg config.LogConfig, verbose bool, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return log
}
