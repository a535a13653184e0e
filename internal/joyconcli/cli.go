package joyconcli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/neuroplastio/joyconcore/controller"
	"github.com/neuroplastio/joyconcore/internal/buildinfo"
	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
	"github.com/neuroplastio/joyconcore/transport/hidtransport"
	"github.com/spf13/cobra"
)

// Main is the joyconctl entrypoint: build the root command, wire
// stdio/args/ctx, and execute it.
func Main(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	dir, err := os.UserCacheDir()
	if err != nil {
		return err
	}
	cmd := NewRootCmd(filepath.Join(dir, "joyconctl"))
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

// categoryNames maps the --category flag's accepted spellings to
// report.Category.
var categoryNames = map[string]report.Category{
	"pro":         controller.CategoryProGrip,
	"joycon-l":    controller.CategoryJoyConL,
	"joycon-r":    controller.CategoryJoyConR,
	"joycon-dual": controller.CategoryJoyConDual,
}

func parseCategory(s string) (report.Category, error) {
	cat, ok := categoryNames[s]
	if !ok {
		return 0, fmt.Errorf("joyconcli: unknown --category %q", s)
	}
	return cat, nil
}

// openController opens one hidraw path per path in paths and assembles the
// Controller variant category expects. Every opened transport is closed if
// any later one fails to open.
func openController(category report.Category, paths ...string) (controller.Controller, []*hidtransport.Transport, error) {
	transports := make([]*hidtransport.Transport, 0, len(paths))
	closeAll := func() {
		for _, t := range transports {
			_ = t.Close()
		}
	}
	sessions := make([]*session.Session, 0, len(paths))
	for _, p := range paths {
		t, err := hidtransport.OpenPath(p)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		transports = append(transports, t)
		sessions = append(sessions, session.New(t))
	}
	ctrl, err := controller.Open(category, sessions...)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return ctrl, transports, nil
}

func closeTransports(transports []*hidtransport.Transport) {
	for _, t := range transports {
		_ = t.Close()
	}
}

// NewRootCmd builds the joyconctl command tree: pair, poll, backup, led,
// rumble, list-devices, help-topics, and version as leaf subcommands
// under one persistent root.
func NewRootCmd(cacheDir string) *cobra.Command {
	var category string
	var paths []string

	rootCmd := &cobra.Command{
		Use:   "joyconctl",
		Short: "Joy-Con / Pro Controller HID protocol driver CLI",
		Long:  `joyconctl pairs, polls, and configures Nintendo Switch Joy-Con and Pro Controller devices over HID.`,
	}
	rootCmd.PersistentFlags().StringVar(&category, "category", "joycon-dual", "controller shape: pro, joycon-l, joycon-r, joycon-dual")
	rootCmd.PersistentFlags().StringSliceVar(&paths, "path", nil, "hidraw device path(s); joycon-dual takes two, others take one")

	rootCmd.AddCommand(newListDevicesCmd())
	rootCmd.AddCommand(newHelpTopicsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPairCmd(&category, &paths))
	rootCmd.AddCommand(newPollCmd(&category, &paths))
	rootCmd.AddCommand(newBackupCmd(&category, &paths, cacheDir))
	rootCmd.AddCommand(newLedCmd(&category, &paths, cacheDir))
	rootCmd.AddCommand(newRumbleCmd(&category, &paths))
	return rootCmd
}

func newListDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-devices",
		Short: "List Joy-Con/Pro Controller hidraw endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := ListDevices()
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(devices, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func newHelpTopicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "help-topics [topic]",
		Short: "Print long-form help documents (flash memory map, IR resolutions)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				topics, err := HelpTopics()
				if err != nil {
					return err
				}
				for _, t := range topics {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			}
			html, err := RenderHelpTopic(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(html)
			return err
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the joyconctl build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.Version)
			return nil
		},
	}
}

func newPairCmd(category *string, paths *[]string) *cobra.Command {
	var macStr, alias string
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Send a manual-pair sub-command with a host MAC and alias",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(*category)
			if err != nil {
				return err
			}
			mac, err := parseMAC(macStr)
			if err != nil {
				return err
			}
			ctrl, transports, err := openController(cat, *paths...)
			if err != nil {
				return err
			}
			defer closeTransports(transports)
			return ctrl.Pair(cmd.Context(), mac, alias)
		},
	}
	cmd.Flags().StringVar(&macStr, "mac", "", "host MAC address, colon-separated hex")
	cmd.Flags().StringVar(&alias, "alias", "", "host alias name")
	return cmd
}

func newPollCmd(category *string, paths *[]string) *cobra.Command {
	var pollTypeStr string
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Switch poll mode and print decoded input reports until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(*category)
			if err != nil {
				return err
			}
			pollType, err := ParsePollType(pollTypeStr)
			if err != nil {
				return err
			}
			ctrl, transports, err := openController(cat, *paths...)
			if err != nil {
				return err
			}
			defer closeTransports(transports)
			if err := ctrl.Poll(cmd.Context(), pollType); err != nil {
				return err
			}
			for {
				data, err := ctrl.GetData(cmd.Context())
				if err != nil {
					return err
				}
				b, _ := json.Marshal(data)
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
			}
		},
	}
	defaultPollType, _ := pollTypeNames[report.PollStandard]
	cmd.Flags().StringVar(&pollTypeStr, "poll-type", defaultPollType, "poll type: "+fmt.Sprint(PollTypeNames()))
	return cmd
}

func newBackupCmd(category *string, paths *[]string, cacheDir string) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Read the full flash memory image to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(*category)
			if err != nil {
				return err
			}
			ctrl, transports, err := openController(cat, *paths...)
			if err != nil {
				return err
			}
			defer closeTransports(transports)
			data, err := ctrl.BackupMemory(cmd.Context(), func(total, current int) {
				fmt.Fprintf(cmd.ErrOrStderr(), "\rbackup %d/%d", current, total)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr())
			return os.WriteFile(outPath, data, 0o600)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "flash.bin", "output file path")
	return cmd
}

func newLedCmd(category *string, paths *[]string, cacheDir string) *cobra.Command {
	var player uint8
	var flash uint8
	var macStr string
	cmd := &cobra.Command{
		Use:   "led",
		Short: "Set the player LED pattern and cache the controller's color under --mac",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(*category)
			if err != nil {
				return err
			}
			ctrl, transports, err := openController(cat, *paths...)
			if err != nil {
				return err
			}
			defer closeTransports(transports)
			if err := ctrl.SetPlayer(cmd.Context(), player, flash); err != nil {
				return err
			}
			color, err := ctrl.GetColor(cmd.Context())
			if err != nil {
				return err
			}
			if macStr == "" {
				return nil
			}
			mac, err := parseMAC(macStr)
			if err != nil {
				return err
			}
			cache, err := OpenCache(cacheDir)
			if err != nil {
				return err
			}
			defer cache.Close()
			return cache.Put(mac, Metadata{Color: color})
		},
	}
	cmd.Flags().Uint8Var(&player, "player", 0, "player LED bitmask")
	cmd.Flags().Uint8Var(&flash, "flash", 0, "flash LED bitmask")
	cmd.Flags().StringVar(&macStr, "mac", "", "controller MAC to cache the color under; skipped if empty")
	return cmd
}

func newRumbleCmd(category *string, paths *[]string) *cobra.Command {
	var highFreq, highAmp, lowFreq, lowAmp float64
	cmd := &cobra.Command{
		Use:   "rumble",
		Short: "Drive both actuators with the same frequency/amplitude parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(*category)
			if err != nil {
				return err
			}
			ctrl, transports, err := openController(cat, *paths...)
			if err != nil {
				return err
			}
			defer closeTransports(transports)
			side := &report.RumbleFreq{
				HighFreqHz: highFreq,
				HighAmp:    highAmp,
				LowFreqHz:  lowFreq,
				LowAmp:     lowAmp,
			}
			return ctrl.Rumblef(cmd.Context(), side, side)
		},
	}
	cmd.Flags().Float64Var(&highFreq, "high-freq", 320, "high frequency side, Hz")
	cmd.Flags().Float64Var(&highAmp, "high-amp", 0.5, "high frequency side amplitude, 0-1")
	cmd.Flags().Float64Var(&lowFreq, "low-freq", 160, "low frequency side, Hz")
	cmd.Flags().Float64Var(&lowAmp, "low-amp", 0.5, "low frequency side amplitude, 0-1")
	return cmd
}

func parseMAC(s string) ([6]byte, error) {
	var mac [6]byte
	n, err := fmt.Sscanf(s, "%02x:%02x:%02x:%02x:%02x:%02x",
		&mac[0], &mac[1], &mac[2], &mac[3], &mac[4], &mac[5])
	if err != nil || n != 6 {
		return mac, fmt.Errorf("joyconcli: invalid --mac %q", s)
	}
	return mac, nil
}
