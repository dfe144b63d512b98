package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/readysettech/consulkv/kv"
)

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Reads the value stored at a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		raw, _ := cmd.Flags().GetBool("raw")
		recurse, _ := cmd.Flags().GetBool("recurse")

		if raw {
			res, err := kv.ReadRaw(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}

			_, err = os.Stdout.Write(res.Value)

			return err
		}

		var opts []kv.Option
		if recurse {
			opts = append(opts, kv.WithRecurse())
		}

		res, err := kv.Read(cmd.Context(), client, args[0], opts...)
		if err != nil {
			return err
		}

		for _, pair := range res.Value {
			if recurse {
				fmt.Printf("%s=%s\n", pair.Key, pair.Value)
			} else {
				fmt.Printf("%s\n", pair.Value)
			}
		}

		return nil
	},
}

var putCmd = &cobra.Command{
	Use:   "put [key] [value]",
	Short: "Stores a value at a key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		var opts []kv.Option

		if flags, _ := cmd.Flags().GetUint64("flags"); cmd.Flags().Changed("flags") {
			opts = append(opts, kv.WithFlags(flags))
		}

		if cas, _ := cmd.Flags().GetUint64("cas"); cmd.Flags().Changed("cas") {
			opts = append(opts, kv.WithCAS(cas))
		}

		res, err := kv.Set(cmd.Context(), client, args[0], []byte(args[1]), opts...)
		if err != nil {
			return err
		}

		if !res.Value {
			return fmt.Errorf("write to %q was not applied", args[0])
		}

		fmt.Printf("wrote %s\n", args[0])

		return nil
	},
}

var delCmd = &cobra.Command{
	Use:   "del [key]",
	Short: "Deletes a key, or a whole prefix with --recurse",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		var opts []kv.Option
		if recurse, _ := cmd.Flags().GetBool("recurse"); recurse {
			opts = append(opts, kv.WithRecurse())
		}

		res, err := kv.Delete(cmd.Context(), client, args[0], opts...)
		if err != nil {
			return err
		}

		if !res.Value {
			return fmt.Errorf("delete of %q was not applied", args[0])
		}

		fmt.Printf("deleted %s\n", args[0])

		return nil
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys [prefix]",
	Short: "Lists keys under a prefix",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}

		var opts []kv.Option
		if separator, _ := cmd.Flags().GetString("separator"); separator != "" {
			opts = append(opts, kv.WithSeparator(separator))
		}

		res, err := kv.Keys(cmd.Context(), client, prefix, opts...)
		if err != nil {
			return err
		}

		for _, key := range res.Value {
			fmt.Println(key)
		}

		return nil
	},
}

func init() {
	getCmd.Flags().Bool("raw", false, "print the stored bytes without decoding")
	getCmd.Flags().Bool("recurse", false, "read every key under the given prefix")
	putCmd.Flags().Uint64("flags", 0, "opaque flags value to attach")
	putCmd.Flags().Uint64("cas", 0, "check-and-set index; 0 writes only if the key is absent")
	delCmd.Flags().Bool("recurse", false, "delete every key under the given prefix")
	keysCmd.Flags().String("separator", "", "list keys only up to the separator")
}
