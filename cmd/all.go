package cmd

import (
	_ "riverbird-standalone/cmd/config"
	_ "riverbird-standalone/cmd/root"
	_ "riverbird-standalone/cmd/standalone"
	_ "riverbird-standalone/cmd/units"
)
