package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"godig/log"
	"godig/resolver"
	"godig/udp"
)

// Option represents the config file content.  Console flags override the
// file, defaults apply when neither is given.
type Option struct {
	Log struct {
		File    string `json:"file"`
		STDOUT  bool   `json:"stdout"`
		Verbose bool   `json:"verbose"`
	} `json:"log"`

	Server struct {
		Address string `json:"address"`
		Port    int    `json:"port"`
	} `json:"server"`

	Resolver struct {
		// TimeoutMS per-hop receive timeout, milliseconds
		TimeoutMS int `json:"timeout_ms"`
		// LocalPort the outbound query origin port
		LocalPort int `json:"local_port"`
	} `json:"resolver"`
}

var (
	option Option

	flagConfig  string
	flagAddress string
	flagPort    int
	flagVerbose bool
)

func main() {
	cmd := &cobra.Command{
		Use:           "godig",
		Short:         "godig is a recursive DNS resolver",
		Long:          "godig answers UDP DNS queries by walking the delegation hierarchy from a root nameserver",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "config file path")
	cmd.Flags().StringVarP(&flagAddress, "address", "a", "", "listen address")
	cmd.Flags().IntVarP(&flagPort, "port", "p", 0, "listen port")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	if err := loadOption(); err != nil {
		return err
	}

	if err := initLog(); err != nil {
		fmt.Println("log init error", err)
		return err
	}
	defer func() {
		_ = log.Logger.Sync()
		time.Sleep(time.Second)
	}()

	transport := &resolver.UDPTransport{
		LocalPort: option.Resolver.LocalPort,
		Timeout:   time.Duration(option.Resolver.TimeoutMS) * time.Millisecond,
	}

	server, err := udp.New(net.ParseIP(option.Server.Address), option.Server.Port, resolver.New(transport))
	if err != nil {
		log.Sugar.Error(err)
		return err
	}

	server.Start()

	// godig is running until os exit
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sc
	log.Sugar.Infof("signal %d %s", s, s)

	server.Stop()
	return nil
}

func loadOption() error {
	// defaults match the conventional resolver endpoint
	option.Server.Address = "0.0.0.0"
	option.Server.Port = 2053
	option.Log.STDOUT = true

	path := flagConfig
	if len(path) == 0 {
		path = "godig.json"
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err = json.Unmarshal(raw, &option); err != nil {
			return fmt.Errorf("config [%s] parse error=[%w]", path, err)
		}
	case os.IsNotExist(err) && len(flagConfig) == 0:
		// no config file, defaults apply
	default:
		return fmt.Errorf("config [%s] read error=[%w]", path, err)
	}

	if len(flagAddress) > 0 {
		option.Server.Address = flagAddress
	}
	if flagPort > 0 {
		option.Server.Port = flagPort
	}
	if flagVerbose {
		option.Log.Verbose = true
	}

	return nil
}

func initLog() error {
	lc := log.Config{
		File:       option.Log.File,
		STDOUT:     option.Log.STDOUT,
		MaxAge:     2,
		MaxSize:    10,
		MaxBackups: 100,
	}

	if option.Log.Verbose {
		lc.Level = -1
	}

	return log.Init(lc)
}
