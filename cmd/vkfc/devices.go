package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	vkc "github.com/QUINTIX/vk-compute"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List Vulkan physical devices for use in config.toml",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := vkc.InitializeForComputeOnly(); err != nil {
			return errors.Wrap(err, "vulkan initialization failed")
		}

		app := vkc.App{
			Name:       "vkfc",
			APIVersion: vkc.Version{Major: 1, Minor: 1, Patch: 0},
		}
		instance, err := app.CreateInstance()
		if err != nil {
			return errors.Wrap(err, "failed to create instance")
		}
		defer instance.Destroy()

		pdevices, err := instance.PhysicalDevices()
		if err != nil {
			return errors.Wrap(err, "failed to enumerate physical devices")
		}
		if len(pdevices) == 0 {
			return errors.Newf("no physical devices found")
		}

		out := cmd.OutOrStdout()
		for i, d := range pdevices {
			v := d.APIVersion()
			fmt.Fprintf(out, "%d: %s (%s, Vulkan %d.%d.%d)\n",
				i, d.DeviceName, vkc.DeviceTypeString(d.DeviceType()), v.Major, v.Minor, v.Patch)

			queues, err := d.QueueFamilies()
			if err != nil {
				return errors.Wrapf(err, "failed to enumerate queue families of device %d", i)
			}
			fmt.Fprintf(out, "   queue families: %d (%d compute capable)\n",
				len(queues), len(queues.FilterCompute()))

			for _, h := range d.MemoryHeaps() {
				local := ""
				if h.DeviceLocal {
					local = ", device local"
				}
				fmt.Fprintf(out, "   heap %d: %d MiB%s\n", h.Index, h.Size/(1<<20), local)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
