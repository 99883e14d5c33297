package transport

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/gorilla/securecookie"
	"github.com/kofalt/go-memoize"
	"github.com/nxlauncher/launcher-admin-system/config"
	"github.com/nxlauncher/launcher-admin-system/logging"
	"github.com/nxlauncher/launcher-admin-system/service"
	"github.com/nxlauncher/launcher-admin-system/steam"
	"github.com/nxlauncher/launcher-admin-system/utils"
	"github.com/sirupsen/logrus"
)

// App is App
type App struct {
	Conf                *config.Config
	CC                  utils.CookieCutter
	Service             service.Service
	decoder             *schema.Decoder
	authMiddlewareCache *memoize.Memoizer
}

func InitApp(l *logrus.Logger, conf *config.Config, db *sql.DB, profileReader steam.ProfileReader) {
	l.Infoln("initializing the server")
	router := mux.NewRouter()
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", conf.Port),
		Handler: logging.LogRequestHandler(l, router),
	}

	decoder := schema.NewDecoder()
	decoder.ZeroEmpty(false)
	decoder.IgnoreUnknownKeys(true)

	a := &App{
		Conf: conf,
		CC: utils.CookieCutter{
			Previous: securecookie.New([]byte(conf.SecurecookieHashKeyPrevious), []byte(conf.SecurecookieBlockKeyPrevious)),
			Current:  securecookie.New([]byte(conf.SecurecookieHashKeyCurrent), []byte(conf.SecurecookieBlockKeyCurrent)),
		},
		Service: service.NewSiteService(l, db, profileReader, conf.SessionExpirationSeconds,
			conf.ArchivesDirFullPath, conf.GalleryDirFullPath, conf.PublicBaseURL),
		decoder:             decoder,
		authMiddlewareCache: memoize.NewMemoizer(5*time.Second, 60*time.Minute),
	}

	l.WithField("port", conf.Port).Infoln("starting the server...")
	go func() {
		a.handleRequests(l, srv, router)
	}()

	term := make(chan os.Signal, 1)
	signal.Notify(term, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-term
	l.Infoln("signal received")

	l.Infoln("shutting down the server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		l.WithError(err).Errorln("server shutdown failed")
	}

	l.Infoln("goodbye")
}
