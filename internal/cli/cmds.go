package cli

func regCommands() {
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(genesisCmd)
}
