package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// panelShell bootstraps the admin panel SPA. All panel routing happens
// client-side; the route guard has already decided whether the request may
// reach it.
const panelShell = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Painel FII Hub</title>
  <link rel="stylesheet" href="/_assets/panel.css">
</head>
<body>
  <div id="root"></div>
  <script src="/_assets/panel.js"></script>
</body>
</html>
`

// PanelHandler serves the admin panel shell for every /admin UI path.
type PanelHandler struct{}

// NewPanelHandler constructs a PanelHandler.
func NewPanelHandler() *PanelHandler {
	return &PanelHandler{}
}

// ServeShell handles GET /admin and GET /admin/*path
func (h *PanelHandler) ServeShell(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(panelShell))
}
