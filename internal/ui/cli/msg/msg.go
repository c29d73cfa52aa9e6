package msg

import (
	"github.com/spf13/cobra"
)

var varsFlag map[string]string

var MsgCmd = &cobra.Command{
	Use:   "msg",
	Short: "Send messages",
	Long:  `Send a rendered template or a raw prompt to the configured model.`,
}

func init() {
	sendCmd.Flags().StringToStringVar(&varsFlag, "var", nil, "Template variable as key=value (repeatable)")
	MsgCmd.AddCommand(sendCmd, askCmd)
}
