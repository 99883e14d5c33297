package main

import (
	"github.com/nxlauncher/launcher-admin-system/config"
	"github.com/nxlauncher/launcher-admin-system/database"
	"github.com/nxlauncher/launcher-admin-system/logging"
	"github.com/nxlauncher/launcher-admin-system/steam"
	"github.com/nxlauncher/launcher-admin-system/transport"
)

func main() {
	l := logging.InitLogger()
	l.Infoln("hi")

	conf := config.GetConfig(l)
	db := database.OpenDB(l, conf)
	defer db.Close()

	profileReader := steam.NewClient(conf.SteamAPIKey, l.WithField("component", "steam"))

	transport.InitApp(l, conf, db, profileReader)
}
