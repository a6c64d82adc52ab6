package overlay

// In-page scripts for the coordinate bridge. The page side communicates
// with the host through a single-slot mailbox (window._selectedCoordinates):
// the capture handler writes at most one coordinate into it, the host
// poller drains it and acknowledges by clearing it.

// armScript installs the capture layer: a transparent full-viewport
// overlay with a crosshair cursor and a banner. The first primary-button
// click inside the layer records the viewport coordinate, suppresses the
// page's own handling, flashes a marker, and removes the layer, so at
// most one coordinate is captured per arm.
const armScript = `(index) => {
	if (window._coordinateHandler) {
		document.removeEventListener('click', window._coordinateHandler);
	}

	let msg = document.getElementById('getu-clicker-message');
	if (!msg) {
		msg = document.createElement('div');
		msg.id = 'getu-clicker-message';
		msg.style.position = 'fixed';
		msg.style.top = '10px';
		msg.style.left = '50%';
		msg.style.transform = 'translateX(-50%)';
		msg.style.backgroundColor = 'rgba(0, 0, 0, 0.8)';
		msg.style.color = 'white';
		msg.style.padding = '10px 15px';
		msg.style.borderRadius = '5px';
		msg.style.zIndex = '9999';
		msg.style.fontFamily = 'Arial, sans-serif';
		document.body.appendChild(msg);
	}

	let layer = document.getElementById('getu-clicker-overlay');
	if (!layer) {
		layer = document.createElement('div');
		layer.id = 'getu-clicker-overlay';
		layer.style.position = 'fixed';
		layer.style.top = '0';
		layer.style.left = '0';
		layer.style.width = '100%';
		layer.style.height = '100%';
		layer.style.zIndex = '9998';
		layer.style.background = 'transparent';
		layer.style.cursor = 'crosshair';
		layer.style.pointerEvents = 'auto';
		document.body.appendChild(layer);
	}

	msg.textContent = 'Click anywhere on this page to select a position for automated clicking';
	window._sessionIndex = index;
	window._selectedCoordinates = null;

	window._coordinateHandler = function(e) {
		e.preventDefault();
		e.stopPropagation();

		const x = e.clientX;
		const y = e.clientY;
		msg.textContent = 'Selected position: (' + x + ', ' + y + ')';
		window._selectedCoordinates = { sessionIndex: window._sessionIndex, x: x, y: y };

		const marker = document.createElement('div');
		marker.style.position = 'absolute';
		marker.style.left = (x - 5) + 'px';
		marker.style.top = (y - 5) + 'px';
		marker.style.width = '10px';
		marker.style.height = '10px';
		marker.style.borderRadius = '50%';
		marker.style.backgroundColor = 'red';
		marker.style.zIndex = '9999';
		document.body.appendChild(marker);
		setTimeout(() => {
			marker.style.transition = 'opacity 0.5s ease-out';
			marker.style.opacity = '0';
			setTimeout(() => marker.remove(), 500);
		}, 1000);

		layer.style.pointerEvents = 'none';
		setTimeout(() => layer.remove(), 500);
		return true;
	};

	layer.addEventListener('click', window._coordinateHandler);
	return true;
}`

// pollScript reads the mailbox without consuming it.
const pollScript = `() => window._selectedCoordinates`

// ackScript drains the mailbox after the host has read it.
const ackScript = `() => { window._selectedCoordinates = null; }`

// cleanupScript removes any leftover handler, capture layer, and banner.
// Safe to run when nothing was ever installed.
const cleanupScript = `() => {
	if (window._coordinateHandler) {
		document.removeEventListener('click', window._coordinateHandler);
		const layer = document.getElementById('getu-clicker-overlay');
		if (layer) {
			layer.removeEventListener('click', window._coordinateHandler);
			layer.remove();
		}
		delete window._coordinateHandler;
	}
	const msg = document.getElementById('getu-clicker-message');
	if (msg) {
		msg.remove();
	}
	return true;
}`

// clickScript dispatches a synthetic click at a viewport coordinate,
// preferring the element's own click() over a raw event. Returns false
// when no element is under the point; the host then falls back to a real
// mouse click.
const clickScript = `(x, y) => {
	const element = document.elementFromPoint(x, y);

	const marker = document.createElement('div');
	marker.style.position = 'absolute';
	marker.style.left = (x - 5) + 'px';
	marker.style.top = (y - 5) + 'px';
	marker.style.width = '10px';
	marker.style.height = '10px';
	marker.style.borderRadius = '50%';
	marker.style.backgroundColor = 'red';
	marker.style.zIndex = '9999';
	marker.style.pointerEvents = 'none';
	document.body.appendChild(marker);
	setTimeout(() => {
		marker.style.transition = 'opacity 0.5s';
		marker.style.opacity = '0';
		setTimeout(() => marker.remove(), 500);
	}, 500);

	if (!element) {
		return false;
	}
	try {
		element.click();
	} catch (e) {
		element.dispatchEvent(new MouseEvent('click', {
			view: window,
			bubbles: true,
			cancelable: true,
			clientX: x,
			clientY: y
		}));
	}
	return true;
}`
