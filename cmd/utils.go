package cmd

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var replacer = strings.NewReplacer(".", "_", "-", "_")

type argType interface {
	string | bool | int | time.Duration | []string
}

// overrides copy flag and environment values onto the configuration once files have been loaded.
var overrides []func()

func bindEnvMap[T argType](cmd *cobra.Command, m map[*T]boundEnvVar[T]) {
	for v, cfg := range m {
		envs := cfg.envNames()
		desc := fmt.Sprintf("[%s] %s", strings.Join(envs, ", "), cfg.Description)
		short := ""
		if cfg.Short != nil {
			short = *cfg.Short
		}

		flags := cmd.PersistentFlags()
		var apply func()
		switch vt := any(v).(type) {
		case *string:
			flags.StringP(cfg.Name, short, *vt, desc)
			apply = func() { *vt = viper.GetString(cfg.Name) }
		case *bool:
			flags.BoolP(cfg.Name, short, *vt, desc)
			apply = func() { *vt = viper.GetBool(cfg.Name) }
		case *int:
			flags.CountP(cfg.Name, short, desc)
			apply = func() { *vt = viper.GetInt(cfg.Name) }
		case *time.Duration:
			flags.DurationP(cfg.Name, short, *vt, desc)
			apply = func() { *vt = viper.GetDuration(cfg.Name) }
		case *[]string:
			flags.StringSliceP(cfg.Name, short, *vt, desc)
			apply = func() { *vt = viper.GetStringSlice(cfg.Name) }
		default:
			log.Panicf("command-args parsing error: unhandled default case for type %T", vt)
		}

		_ = viper.BindPFlag(cfg.Name, flags.Lookup(cfg.Name))
		_ = viper.BindEnv(append([]string{cfg.Name}, envs...)...)
		name := cfg.Name
		overrides = append(overrides, func() {
			if viper.IsSet(name) {
				apply()
			}
		})

		if cfg.Hidden {
			_ = flags.MarkHidden(cfg.Name)
		}
	}
}

func applyOverrides() {
	for _, fn := range overrides {
		fn()
	}
}

func (b boundEnvVar[T]) envNames() []string {
	primary := strings.ToUpper(replacer.Replace(b.Name))
	if b.Env != nil {
		primary = *b.Env
	}
	return append([]string{primary}, b.Aliases...)
}
