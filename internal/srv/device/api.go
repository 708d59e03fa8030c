package device

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mbonnet/oledsrv/apimodel"
	"github.com/mbonnet/oledsrv/internal/srv/config"
	"github.com/mbonnet/oledsrv/internal/srv/controller"
	"github.com/mbonnet/oledsrv/internal/srv/screen"
	"github.com/mbonnet/oledsrv/internal/tool"
	"github.com/sirupsen/logrus"
)

//go:embed webui.html
var webuiFile []byte

// Api exposes the display controller operations over HTTP and serves the
// small control page at the root.
type Api struct {
	router *mux.Router
	server *http.Server

	config            *config.ServerConfig
	displayController *controller.Controller
}

func NewApi(config *config.ServerConfig, displayController *controller.Controller) *Api {
	api := Api{
		config:            config,
		displayController: displayController,
	}

	api.router = mux.NewRouter().StrictSlash(false)

	// Control page
	api.router.HandleFunc("/", api.homePageAction).Methods("GET")

	// API Routes
	apiRouter := api.router.PathPrefix("/api").Subrouter()
	apiRouter.NotFoundHandler = http.HandlerFunc(ErrorNotFoundAction)
	apiRouter.MethodNotAllowedHandler = http.HandlerFunc(ErrorMethodNotAllowedAction)

	// Recovery middleware
	apiRouter.Use(
		func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if rec := recover(); rec != nil {
						logrus.Warningf("recovered from panic : [%v] - stack trace : \n [%s]", rec, debug.Stack())
						strMessage := fmt.Sprintf("%v", rec)
						GlobalErrorAction(w, strMessage, http.StatusInternalServerError)
					}
				}()

				logrus.Debugf("PATH: %s %s", r.Host, r.URL.Path)

				handler.ServeHTTP(w, r)
			})
		})

	// Create server check endpoint
	apiRouter.HandleFunc("/is_alive",
		func(w http.ResponseWriter, r *http.Request) {
			ErrorStatusAction(w, r, http.StatusOK)
		}).Methods("GET")
	apiRouter.HandleFunc("/status", api.statusAction).Methods("GET")
	apiRouter.HandleFunc("/mode/{mode}", api.setModeAction).Methods("POST")
	apiRouter.HandleFunc("/message", api.setMessageAction).Methods("POST")
	apiRouter.HandleFunc("/clear", api.clearAction).Methods("POST")
	apiRouter.HandleFunc("/test", api.testAction).Methods("GET")

	// Tell the browser that it's OK for JS to communicate with the server
	headersOk := handlers.AllowedHeaders([]string{"Content-Type"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})

	api.server = &http.Server{
		Addr:         ":" + strconv.FormatInt(config.ApiParam.Port, 10),
		Handler:      handlers.CompressHandler(handlers.CORS(originsOk, headersOk, methodsOk)(api.router)),
		ReadTimeout:  time.Second * 240,
		WriteTimeout: time.Second * 240,
		IdleTimeout:  time.Second * 240,
	}

	return &api
}

func (d *Api) Start() {
	logrus.Infof("Start api device")

	if !d.config.ApiParam.Ssl {
		go func() {
			err := d.server.ListenAndServe()
			if err != nil && err.Error() != "http: Server closed" {
				logrus.Error(err)
			}
		}()
		return
	}

	existServerCert, err := tool.IsFileExists(d.selfSignedCertFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.selfSignedCertFilename(), err)
	}

	existServerKey, err := tool.IsFileExists(d.selfSignedKeyFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.selfSignedKeyFilename(), err)
	}

	if !existServerCert || !existServerKey {
		logrus.Info("Missing cert and key files, trying to generate them...")
		err = tool.GenerateTlsCertificate(
			"oledsrv",
			"Oledsrv Server",
			d.selfSignedKeyFilename(),
			d.selfSignedCertFilename(),
			[]string{})
		if err != nil {
			logrus.Fatalf("Unable to generate cert and key files : %v\n", err)
		}
		logrus.Info("Self-signed cert and key files generated")
	}

	go func() {
		err := d.server.ListenAndServeTLS(d.selfSignedCertFilename(), d.selfSignedKeyFilename())
		if err != nil && err.Error() != "http: Server closed" {
			logrus.Error(err)
		}
	}()
}

func (d *Api) Stop() {
	logrus.Infof("Stop api device")
	d.server.Shutdown(context.Background())
}

func (d *Api) selfSignedKeyFilename() string {
	return filepath.Join(d.config.ConfigDir, "key.pem")
}

func (d *Api) selfSignedCertFilename() string {
	return filepath.Join(d.config.ConfigDir, "cert.pem")
}

func (d *Api) homePageAction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(webuiFile)
}

func (d *Api) statusAction(w http.ResponseWriter, r *http.Request) {
	status := d.displayController.Status()

	reply := apimodel.DisplayStatus{
		Mode:  status.Mode.String(),
		Dirty: status.Dirty,
	}
	if status.Mode == screen.MESSAGE_MODE {
		reply.Message = status.Message
	}
	if !status.LastRenderAt.IsZero() {
		reply.LastRenderAt = status.LastRenderAt.Format(time.RFC3339)
	}
	if status.LastCommitError != nil {
		reply.LastCommitError = status.LastCommitError.Error()
	}
	writeJsonAction(w, reply)
}

func (d *Api) setModeAction(w http.ResponseWriter, r *http.Request) {
	name, ok := mux.Vars(r)["mode"]
	if !ok {
		ErrorStatusAction(w, r, http.StatusBadRequest)
		return
	}

	mode, ok := screen.ParseMode(name)
	if !ok {
		GlobalErrorAction(w, fmt.Sprintf("invalid mode %q, valid modes: clock, system, off", name), http.StatusBadRequest)
		return
	}

	if err := d.displayController.SetMode(mode); err != nil {
		GlobalErrorAction(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJsonAction(w, apimodel.ActionReply{Message: "Display mode set to " + name, Mode: name})
}

func (d *Api) setMessageAction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		GlobalErrorAction(w, "unable to parse message body", http.StatusBadRequest)
		return
	}

	if err := d.displayController.SetMessage(body.Message); err != nil {
		if errors.Is(err, controller.ErrInvalidParameter) {
			GlobalErrorAction(w, "message must not be empty", http.StatusBadRequest)
		} else {
			GlobalErrorAction(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJsonAction(w, apimodel.ActionReply{Message: "Custom message set", Mode: "message"})
}

func (d *Api) clearAction(w http.ResponseWriter, r *http.Request) {
	d.displayController.Clear()
	writeJsonAction(w, apimodel.ActionReply{Message: "Display cleared", Mode: "off"})
}

func (d *Api) testAction(w http.ResponseWriter, r *http.Request) {
	if err := d.displayController.Test(); err != nil {
		GlobalErrorAction(w, "display test failed: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJsonAction(w, apimodel.ActionReply{Message: "Test frame sent to display"})
}

func writeJsonAction(w http.ResponseWriter, reply interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}

func ErrorNotFoundAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusNotFound)
}

func ErrorMethodNotAllowedAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusMethodNotAllowed)
}

func ErrorStatusAction(w http.ResponseWriter, r *http.Request, status int) {
	ErrorMessageAction(w, "", status)
}

func GlobalErrorAction(w http.ResponseWriter, message string, status int) {
	ErrorMessageAction(w, message, status)
}

func ErrorMessageAction(w http.ResponseWriter, title string, status int) {
	errorMessage := &apimodel.ErrorMessage{
		ErrStatusCode: status,
		ErrMessage:    title,
	}

	if title == "" {
		switch status {
		case http.StatusOK:
			errorMessage.ErrMessage = "Ok"
		case http.StatusNotFound:
			errorMessage.ErrMessage = "Page not found"
		case http.StatusMethodNotAllowed:
			errorMessage.ErrMessage = "Method not allowed"
		case http.StatusServiceUnavailable:
			errorMessage.ErrMessage = "Service unavailable"
		case http.StatusBadRequest:
			errorMessage.ErrMessage = "Bad request"
		default:
			errorMessage.ErrMessage = "Internal error"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorMessage)
}
