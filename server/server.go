/*
Package server implements the HTTP endpoint that receives encoded frames from
the browser converter and serves them back out.
*/
package server

import (
	"bytes"
	"image/png"
	"io"
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/bodgit/epd"
	"github.com/bodgit/epd/frame"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

// FormField is the multipart field holding the uploaded frame.
const FormField = "binary_data"

// Frames is the frame storage used by the server.
type Frames interface {
	epd.Store
	Frame(id int64) (*epd.StoredFrame, error)
}

// Response is the JSON body returned by the upload endpoint.
type Response struct {
	Success bool   `json:"success,omitempty"`
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Server struct {
	*echo.Echo
	frames     Frames
	upsideDown bool
}

// New returns a server storing frames in frames. upsideDown must match how
// the frames were encoded for previews to render the right way up.
func New(frames Frames, upsideDown bool) *Server {
	s := &Server{
		Echo:       echo.New(),
		frames:     frames,
		upsideDown: upsideDown,
	}
	s.HideBanner = true

	s.Use(middleware.Logger())
	s.Use(middleware.Recover())

	s.POST("/store-binary", s.storeBinary)
	s.GET("/frames/:id", s.getFrame)
	s.GET("/frames/:id/preview.png", s.getPreview)

	return s
}

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, &Response{Error: msg})
}

func (s *Server) storeBinary(c echo.Context) error {
	fh, err := c.FormFile(FormField)
	if err != nil {
		return fail(c, http.StatusBadRequest, "No binary data received")
	}

	f, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to read uploaded binary data")
	}
	defer f.Close()

	b, err := ioutil.ReadAll(io.LimitReader(f, frame.Size+1))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to read uploaded binary data")
	}

	if len(b) != frame.Size || !frame.Valid(b) {
		return fail(c, http.StatusBadRequest, "Invalid frame data")
	}

	// Browsers name Blob uploads "blob"
	name := fh.Filename
	if name == "blob" {
		name = ""
	}

	id, err := s.frames.Store(name, b)
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, &Response{
		Success: true,
		ID:      id,
		Message: "Binary data stored successfully",
	})
}

func (s *Server) lookup(c echo.Context) (*epd.StoredFrame, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid frame id")
	}

	f, err := s.frames.Frame(id)
	switch err {
	case nil:
		return f, nil
	case epd.ErrNotFound:
		return nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return nil, err
	}
}

func (s *Server) getFrame(c echo.Context) error {
	f, err := s.lookup(c)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, f.Frame)
}

func (s *Server) getPreview(c echo.Context) error {
	f, err := s.lookup(c)
	if err != nil {
		return err
	}

	decoded, err := frame.ReadFrame(bytes.NewReader(f.Frame), s.upsideDown)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	b := new(bytes.Buffer)
	if err := png.Encode(b, decoded.Image); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", b.Bytes())
}
