// tdbench creates a super table with child tables in a TDengine database
// and loads synthesized rows into them through one of the insert protocols.
package main

import (
	"os"

	"github.com/blagojts/viper"
	_ "github.com/taosdata/driver-go/v3/taosRestful"
	_ "github.com/taosdata/driver-go/v3/taosWS"
)

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}
