package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pion/webrtc/v4"

	"github.com/vanshsehgal08/Lie-Hard/internal/application/config"
)

type IceHandler struct {
	cfg *config.Config
}

func NewIceHandler(cfg *config.Config) *IceHandler {
	return &IceHandler{cfg: cfg}
}

// IceServers mints short-lived TURN credentials from the coturn shared
// secret. Without a configured TURN host, clients fall back to direct
// peer connections.
func (h *IceHandler) IceServers(c echo.Context) error {
	if h.cfg.Coturn.Host == "" {
		return c.JSON(http.StatusOK, []webrtc.ICEServer{})
	}

	expiration := time.Now().Add(time.Hour).Unix()
	username := fmt.Sprintf("%d", expiration)

	mac := hmac.New(sha1.New, []byte(h.cfg.Coturn.Secret))
	mac.Write([]byte(username))
	password := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	response := []webrtc.ICEServer{
		{
			URLs: []string{
				fmt.Sprintf("turn:%s?transport=udp", h.cfg.Coturn.Host),
				fmt.Sprintf("turn:%s?transport=tcp", h.cfg.Coturn.Host),
			},
			Username:   username,
			Credential: password,
		},
	}

	return c.JSON(http.StatusOK, response)
}
