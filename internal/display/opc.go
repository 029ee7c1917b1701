package display

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/frame"
)

// DefaultOPCAddr is where fadecandy's fcserver listens by default.
const DefaultOPCAddr = "127.0.0.1:7890"

const (
	opcSetPixels   = 0
	opcHeaderSize  = 4
	opcDialTimeout = 2 * time.Second
	opcWriteLimit  = time.Second
	opcMaxData     = 0xffff
)

// OPC streams frames to an Open Pixel Control server on channel 0. Pixels
// are sent row-major.
type OPC struct {
	conn   net.Conn
	width  int
	height int

	mu         sync.Mutex
	pixels     []frame.Color
	brightness float64
	packet     []byte
}

// DialOPC connects to an OPC server.
func DialOPC(addr string, width, height int) (*OPC, error) {
	if addr == "" {
		addr = DefaultOPCAddr
	}
	if 3*width*height > opcMaxData {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("A %dx%d grid does not fit in one OPC message", width, height),
			"Use a smaller grid")
	}
	conn, err := net.DialTimeout("tcp", addr, opcDialTimeout)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrHardware,
			fmt.Sprintf("Couldn't reach the OPC server at %s", addr),
			"Start fcserver or point --opc-addr at a running server")
	}
	return newOPC(conn, width, height), nil
}

func newOPC(conn net.Conn, width, height int) *OPC {
	n := width * height
	return &OPC{
		conn:       conn,
		width:      width,
		height:     height,
		pixels:     make([]frame.Color, n),
		brightness: 1,
		packet:     make([]byte, opcHeaderSize+3*n),
	}
}

func (o *OPC) Shape() (int, int) { return o.width, o.height }

func (o *OPC) SetBrightness(b float64) error {
	if err := checkBrightness(b); err != nil {
		return err
	}
	o.mu.Lock()
	o.brightness = b
	o.mu.Unlock()
	return nil
}

func (o *OPC) SetPixel(x, y int, c frame.Color) {
	if x < 0 || x >= o.width || y < 0 || y >= o.height {
		return
	}
	o.mu.Lock()
	o.pixels[y*o.width+x] = c
	o.mu.Unlock()
}

// encode fills the packet: channel, command, big-endian length, RGB data.
func (o *OPC) encode() []byte {
	data := 3 * len(o.pixels)
	p := o.packet
	p[0] = 0
	p[1] = opcSetPixels
	p[2] = byte(data >> 8)
	p[3] = byte(data)
	for i, c := range o.pixels {
		c = c.Scale(o.brightness)
		p[opcHeaderSize+3*i] = c.R
		p[opcHeaderSize+3*i+1] = c.G
		p[opcHeaderSize+3*i+2] = c.B
	}
	return p
}

func (o *OPC) Show() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	pkt := o.encode()
	if err := o.conn.SetWriteDeadline(time.Now().Add(opcWriteLimit)); err != nil {
		return err
	}
	_, err := o.conn.Write(pkt)
	return err
}

func (o *OPC) Close() error {
	return o.conn.Close()
}
