package link

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the motor board UART.
const DefaultBaudRate = 115200

// OpenSerial opens the motor board serial port for the packet link.
func OpenSerial(device string, baudRate int) (io.ReadWriteCloser, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	port, err := serial.Open(device, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %v", device, err)
	}
	return port, nil
}
