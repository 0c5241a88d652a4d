/*
Package seleniumkit drives a browser through Selenium WebDriver and waits for
page state with bounded polling.

An Interface owns one WebDriver session. It is opened against a Selenium
grid, a local ChromeDriver or GeckoDriver, or Sauce Labs, depending on its
Type, and is configured from a key=value file read by the config package.

Example usage:

	cfg, err := config.Load("grid.conf")
	if err != nil {
		glog.Exit(err)
	}
	b := seleniumkit.New(cfg, seleniumkit.Grid)
	if err := b.Start(); err != nil {
		glog.Exit(err)
	}
	defer b.Stop()

	if err := b.Go("https://example.com/login"); err != nil {
		glog.Exit(err)
	}
	user, err := b.Wait().Visible(hook.MustParse("id=user"), "", 10*time.Second)
	if err != nil {
		glog.Exit(err)
	}
	user.SendString("alice")

Waits are provided by the pause package. Each wait repeatedly runs one
blocking driver wait of at most the polling interval (5 seconds by default)
until its predicate succeeds or the total timeout has elapsed. Transient
driver errors are retried; if the last attempt failed with one, that error
is returned instead of a plain timeout.
*/
package seleniumkit
