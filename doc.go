/*
Package romote is an interactive remote control for Roku devices on the local network.

It speaks the External Control Protocol (ECP): it finds a device, verifies it
answers, remembers the address for next time, and then relays a fixed set of
remote-control commands typed at a prompt.

# Concept

A run has two phases. The connection manager (package connect) tries the
cached address, falls back to discovery and a numbered menu, and finally to
a manually typed address. Once a device verifies, the dispatcher (package
dispatch) shows the command table and sends one keypress per token, shrugging
off transient network failures so the user can simply try again.

Every external concern sits behind an interface in package ports: discovery,
transport, address cache, and the prompt. The cmd/romote binary wires in the
real adapters; tests wire in fakes.

# Usage

	r, err := romote.New(
		romote.WithDiscoverer(ssdp.New(3*time.Second, nil)),
		romote.WithConnector(ecp.NewClient()),
		romote.WithCache(adapters.NewFileCache("")),
		romote.WithPrompter(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if err != nil {
		log.Fatal(err)
	}
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package romote
